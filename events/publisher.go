package events

import (
	"context"

	"github.com/AlexObbs/shopp/models"
)

// PaymentEventPublisher publishes payment lifecycle events to downstream
// consumers. Publishing is best-effort: reconciliation outcomes never depend
// on it.
type PaymentEventPublisher interface {
	PublishPaymentEvent(ctx context.Context, event models.PaymentEvent) error
	Close() error
}

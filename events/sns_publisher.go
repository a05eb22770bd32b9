package events

import (
	"context"
	"encoding/json"

	"github.com/AlexObbs/shopp/models"
	awspkg "github.com/AlexObbs/shopp/pkg/aws"
)

// SNSPaymentPublisher publishes payment events to an SNS topic.
type SNSPaymentPublisher struct {
	sns      awspkg.SNSPublisher
	topicArn string
}

func NewSNSPaymentPublisher(sns awspkg.SNSPublisher, topicArn string) *SNSPaymentPublisher {
	return &SNSPaymentPublisher{sns: sns, topicArn: topicArn}
}

func (p *SNSPaymentPublisher) PublishPaymentEvent(ctx context.Context, event models.PaymentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.sns.Publish(ctx, p.topicArn, payload)
}

func (p *SNSPaymentPublisher) Close() error { return nil }

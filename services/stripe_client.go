package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// PaymentProvider abstracts the external payment processor so core logic
// can be exercised with test doubles.
type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// StripeService implements PaymentProvider against the Stripe API.
type StripeService struct {
	webhookKey string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{webhookKey: webhookKey}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return session.New(params)
}

func (s *StripeService) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("payment_intent")
	params.AddExpand("customer")
	return session.Get(id, params)
}

// ConstructEvent verifies the webhook signature against the exact payload
// bytes and returns the parsed event.
func (s *StripeService) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookKey)
}

// mapSessionLookupError translates a processor lookup failure into the
// service error taxonomy. An invalid or expired session reference maps to a
// 4xx with a safe message; anything else is a retryable upstream failure.
func mapSessionLookupError(err error) *ServiceError {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		if stripeErr.Code == stripe.ErrorCodeResourceMissing || stripeErr.HTTPStatusCode == http.StatusNotFound {
			return &ServiceError{
				StatusCode: http.StatusNotFound,
				Code:       CodeSessionNotFound,
				Message:    "Checkout session not found",
				Err:        err,
			}
		}
	}
	return upstreamError("Failed to retrieve checkout session", err)
}

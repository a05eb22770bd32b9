package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/events"
	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/notification"
	"github.com/AlexObbs/shopp/repository"
)

// Tip-specific session metadata keys.
const (
	metaRecipientType = "recipientType"
	metaRecipientID   = "recipientId"
	metaRecipientName = "recipientName"
	metaSenderID      = "senderId"
	metaSenderName    = "senderName"
	metaTipMessage    = "message"
)

// TipService builds tip checkout sessions and reconciles their outcomes,
// for both the synchronous verify endpoint and asynchronous webhooks.
type TipService interface {
	CreateTipCheckout(ctx context.Context, req *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *ServiceError)
	VerifyTipPayment(ctx context.Context, sessionID string) (*models.TipVerifyResponse, *ServiceError)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) *ServiceError
}

type tipServiceImpl struct {
	provider         PaymentProvider
	tips             repository.TipRepository
	resolver         *GuideResolver
	notifier         notification.TipNotifier
	publisher        events.PaymentEventPublisher
	frontendURL      string
	fallbackCurrency string
	logger           *zap.Logger
}

// NewTipService creates a TipService. notifier and publisher may be nil
// when the corresponding collaborator is not configured.
func NewTipService(
	provider PaymentProvider,
	tips repository.TipRepository,
	resolver *GuideResolver,
	notifier notification.TipNotifier,
	publisher events.PaymentEventPublisher,
	frontendURL, fallbackCurrency string,
	logger *zap.Logger,
) TipService {
	return &tipServiceImpl{
		provider:         provider,
		tips:             tips,
		resolver:         resolver,
		notifier:         notifier,
		publisher:        publisher,
		frontendURL:      frontendURL,
		fallbackCurrency: fallbackCurrency,
		logger:           logger,
	}
}

// CreateTipCheckout validates the tip request and creates a hosted checkout
// session carrying everything reconciliation needs in its metadata.
func (s *tipServiceImpl) CreateTipCheckout(ctx context.Context, req *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *ServiceError) {
	if !req.Amount.Set() || req.Amount.Value() <= 0 {
		return nil, badRequest(CodeInvalidAmount, "Tip amount must be greater than zero")
	}

	recipientType := req.RecipientType
	if recipientType != models.RecipientTypeGuide {
		recipientType = models.RecipientTypeCompany
	}
	if recipientType == models.RecipientTypeGuide && strings.TrimSpace(req.RecipientID) == "" {
		return nil, badRequest(CodeMissingRecipient, "Recipient ID is required for guide tips")
	}

	currency := NormalizeCurrency(req.Currency, s.fallbackCurrency)
	amount := req.Amount.Value()

	recipientLabel := "the team"
	if recipientType == models.RecipientTypeGuide && req.RecipientName != "" {
		recipientLabel = req.RecipientName
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = s.frontendURL + "/tip-success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = s.frontendURL + "/tip-cancelled"
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("Tip for %s", recipientLabel)),
						Description: stripe.String("Thank you for your generosity!"),
					},
					UnitAmount: stripe.Int64(MinorUnits(amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}

	params.AddMetadata(metaPaymentType, models.PaymentTypeTip)
	params.AddMetadata(metaRecipientType, recipientType)
	params.AddMetadata(metaRecipientID, req.RecipientID)
	params.AddMetadata(metaRecipientName, req.RecipientName)
	params.AddMetadata(metaSenderID, req.UserID)
	params.AddMetadata(metaSenderName, req.UserName)
	params.AddMetadata(metaTipMessage, req.Message)
	params.AddMetadata(metaAmount, formatAmount(amount))
	params.AddMetadata(metaCurrency, currency)

	sess, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("Failed to create tip checkout session", zap.Error(err))
		return nil, upstreamError("Failed to create tip checkout session", err)
	}

	s.logger.Info("Tip checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("recipient_type", recipientType),
		zap.Float64("amount", amount),
	)

	return &models.TipCheckoutResponse{SessionID: sess.ID}, nil
}

// VerifyTipPayment fetches the session and reconciles it. An unpaid session
// returns Success=false with the raw status and performs no side effects.
func (s *tipServiceImpl) VerifyTipPayment(ctx context.Context, sessionID string) (*models.TipVerifyResponse, *ServiceError) {
	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, mapSessionLookupError(err)
	}
	return s.reconcile(ctx, sess), nil
}

// HandleWebhook verifies the delivered payload's signature before anything
// else, then reconciles completed tip sessions. Once the signature is valid
// the handler reports success regardless of internal processing outcome so
// the processor does not retry a permanently failing side effect forever.
func (s *tipServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) *ServiceError {
	event, err := s.provider.ConstructEvent(payload, sigHeader)
	if err != nil {
		return &ServiceError{
			StatusCode: http.StatusBadRequest,
			Code:       CodeSignatureInvalid,
			Message:    "Webhook signature verification failed",
			Err:        err,
		}
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			s.logger.Error("Failed to unmarshal checkout session from webhook", zap.Error(err))
			return nil
		}
		if sess.Metadata[metaPaymentType] != models.PaymentTypeTip {
			s.logger.Info("Ignoring non-tip checkout completion",
				zap.String("session_id", sess.ID),
			)
			return nil
		}
		s.reconcile(ctx, &sess)
	default:
		s.logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
	}

	return nil
}

// reconcile re-derives the payment outcome from processor status plus
// session metadata, performs the persist-and-notify sequence exactly once
// per payment-intent id, and returns the client-facing view.
func (s *tipServiceImpl) reconcile(ctx context.Context, sess *stripe.CheckoutSession) *models.TipVerifyResponse {
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return &models.TipVerifyResponse{
			Success: false,
			Status:  string(sess.PaymentStatus),
		}
	}

	meta := sess.Metadata
	amount := MajorUnits(sess.AmountTotal)
	currency := meta[metaCurrency]
	if currency == "" {
		currency = string(sess.Currency)
	}

	recipientType := meta[metaRecipientType]
	if recipientType != models.RecipientTypeGuide {
		recipientType = models.RecipientTypeCompany
	}

	recipientID := meta[metaRecipientID]
	recipientName := meta[metaRecipientName]
	recipientEmail := ""
	if recipientType == models.RecipientTypeGuide {
		// Resolution failure must not abort the paid confirmation: the
		// payer already completed payment and must see success.
		guide := s.resolver.Resolve(ctx, recipientID, recipientName)
		if guide.Exists {
			recipientID = guide.ID
			if name := guide.BestName(); name != "" {
				recipientName = name
			}
			recipientEmail = guide.Email
		}
	}

	paymentIntentID := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		paymentIntentID = sess.PaymentIntent.ID
	}

	rec := &models.TipRecord{
		ID:              uuid.NewString(),
		PaymentIntentID: paymentIntentID,
		SessionID:       sess.ID,
		Amount:          amount,
		Currency:        currency,
		RecipientType:   recipientType,
		RecipientID:     recipientID,
		RecipientName:   recipientName,
		SenderID:        meta[metaSenderID],
		SenderName:      meta[metaSenderName],
		Message:         meta[metaTipMessage],
		Status:          models.TipStatusCompleted,
		CreatedAt:       time.Now().UTC(),
	}

	stored := rec
	claimed := true
	if s.tips != nil {
		var err error
		claimed, stored, err = s.tips.Claim(ctx, rec)
		if err != nil {
			// The payment itself already succeeded upstream, so the payer
			// still sees success; the record loss is logged for recovery.
			s.logger.Error("Failed to persist tip record",
				zap.String("payment_intent_id", paymentIntentID),
				zap.Error(err),
			)
			return s.paidResponse(rec)
		}
	}

	if claimed {
		if s.notifier != nil {
			s.notifier.NotifyTipReceived(ctx, stored, recipientEmail)
		}
		s.publishEvent(ctx, stored)
	} else {
		s.logger.Info("Tip already reconciled, returning cached outcome",
			zap.String("payment_intent_id", paymentIntentID),
		)
	}

	return s.paidResponse(stored)
}

func (s *tipServiceImpl) paidResponse(rec *models.TipRecord) *models.TipVerifyResponse {
	return &models.TipVerifyResponse{
		Success: true,
		Payment: &models.TipPayment{
			Amount:        rec.Amount,
			Currency:      rec.Currency,
			RecipientType: rec.RecipientType,
			RecipientID:   rec.RecipientID,
			RecipientName: rec.RecipientName,
			Status:        rec.Status,
		},
	}
}

func (s *tipServiceImpl) publishEvent(ctx context.Context, rec *models.TipRecord) {
	if s.publisher == nil {
		return
	}
	event := models.PaymentEvent{
		Type:            "payment_succeeded",
		PaymentType:     models.PaymentTypeTip,
		SessionID:       rec.SessionID,
		PaymentIntentID: rec.PaymentIntentID,
		UserID:          rec.SenderID,
		Amount:          rec.Amount,
		Currency:        rec.Currency,
		Timestamp:       time.Now().UTC(),
	}
	if err := s.publisher.PublishPaymentEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish payment event",
			zap.String("session_id", rec.SessionID),
			zap.Error(err),
		)
	}
}

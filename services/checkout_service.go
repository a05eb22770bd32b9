package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/models"
)

// Session metadata keys. Every field needed to reconstruct the
// reconciliation decision is serialized here at creation time, because the
// processor session is the only durable record between creation and
// verification. Absent optional fields get explicit placeholders so
// verification can rely on key presence.
const (
	metaPaymentType    = "paymentType"
	metaPackageID      = "packageId"
	metaPackageName    = "packageName"
	metaUserID         = "userId"
	metaOriginalAmount = "originalAmount"
	metaAmount         = "amount"
	metaDiscountAmount = "discountAmount"
	metaCouponCode     = "couponCode"
	metaCurrency       = "currency"

	// couponNone marks the absence of a coupon in metadata. Verification
	// reconciles it back to null, never the literal string.
	couponNone = "none"
)

// CheckoutService builds booking checkout sessions and reconciles their
// outcomes.
type CheckoutService interface {
	CreateBookingCheckout(ctx context.Context, req *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *ServiceError)
	VerifyBookingPayment(ctx context.Context, sessionID string) (*models.PaymentOutcome, *ServiceError)
}

type checkoutServiceImpl struct {
	provider         PaymentProvider
	frontendURL      string
	fallbackCurrency string
	logger           *zap.Logger
}

// NewCheckoutService creates a CheckoutService.
func NewCheckoutService(provider PaymentProvider, frontendURL, fallbackCurrency string, logger *zap.Logger) CheckoutService {
	return &checkoutServiceImpl{
		provider:         provider,
		frontendURL:      frontendURL,
		fallbackCurrency: fallbackCurrency,
		logger:           logger,
	}
}

// CreateBookingCheckout validates the booking request and creates a hosted
// checkout session. Validation fails fast: the first violated rule is
// returned and the processor is never called.
func (s *checkoutServiceImpl) CreateBookingCheckout(ctx context.Context, req *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *ServiceError) {
	if strings.TrimSpace(req.UserID) == "" {
		return nil, badRequest(CodeMissingUserID, "User ID is required")
	}
	if !req.Amount.Set() {
		return nil, badRequest(CodeMissingAmount, "Amount is required")
	}
	if req.Amount.IsZero() {
		// A 100%-discounted booking must not reach the processor; the
		// caller short-circuits payment client-side.
		return nil, badRequest(CodeFreeBooking, "Free bookings do not require a checkout session")
	}

	currency := NormalizeCurrency(req.Currency, s.fallbackCurrency)
	amount := req.Amount.Value()

	originalAmount := amount
	if req.OriginalAmount.Set() {
		originalAmount = req.OriginalAmount.Value()
	}
	discountAmount := 0.0
	if req.DiscountAmount.Set() {
		discountAmount = req.DiscountAmount.Value()
	}

	packageName := req.PackageName
	if packageName == "" {
		packageName = "Travel Package"
	}

	name := packageName
	description := fmt.Sprintf("Booking payment for %s", packageName)
	if req.CouponCode != "" {
		name = fmt.Sprintf("%s (Coupon: %s)", packageName, strings.ToUpper(req.CouponCode))
		description = fmt.Sprintf("Original price %.2f %s, discount %.2f (%s)",
			originalAmount, strings.ToUpper(currency), discountAmount, strings.ToUpper(req.CouponCode))
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
					UnitAmount: stripe.Int64(MinorUnits(amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.frontendURL + "/payment-success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.frontendURL + "/payment-cancelled"),
	}

	params.AddMetadata(metaPaymentType, models.PaymentTypePackage)
	params.AddMetadata(metaPackageID, req.PackageID)
	params.AddMetadata(metaPackageName, packageName)
	params.AddMetadata(metaUserID, req.UserID)
	params.AddMetadata(metaOriginalAmount, formatAmount(originalAmount))
	params.AddMetadata(metaAmount, formatAmount(amount))
	params.AddMetadata(metaDiscountAmount, formatAmount(discountAmount))
	params.AddMetadata(metaCurrency, currency)
	if req.CouponCode != "" {
		params.AddMetadata(metaCouponCode, req.CouponCode)
	} else {
		params.AddMetadata(metaCouponCode, couponNone)
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, params)
	if err != nil {
		s.logger.Error("Failed to create checkout session",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)
		return nil, upstreamError("Failed to create checkout session", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("currency", currency),
		zap.Float64("amount", amount),
	)

	return &models.BookingCheckoutResponse{
		ID:        sess.ID,
		Timestamp: time.Now().UnixMilli(),
		Currency:  currency,
	}, nil
}

// VerifyBookingPayment fetches the session and re-derives the authoritative
// payment outcome from processor status plus stored metadata.
func (s *checkoutServiceImpl) VerifyBookingPayment(ctx context.Context, sessionID string) (*models.PaymentOutcome, *ServiceError) {
	sess, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, mapSessionLookupError(err)
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		// Pending or failed is a valid terminal state for the caller to
		// re-poll, not an error. No side effects.
		return &models.PaymentOutcome{
			Paid:   false,
			Status: string(sess.PaymentStatus),
		}, nil
	}

	amount := MajorUnits(sess.AmountTotal)

	// Older code paths may not have written optional metadata; the
	// processor-reported total is the fallback so reconciliation never
	// fails on missing optional keys.
	originalAmount := parseAmount(sess.Metadata[metaOriginalAmount], amount)
	discountAmount := parseAmount(sess.Metadata[metaDiscountAmount], 0)

	var couponCode *string
	if code, ok := sess.Metadata[metaCouponCode]; ok && code != "" && code != couponNone {
		couponCode = &code
	}

	var customerID *string
	if sess.Customer != nil && sess.Customer.ID != "" {
		id := sess.Customer.ID
		customerID = &id
	}

	return &models.PaymentOutcome{
		Paid:           true,
		Amount:         amount,
		OriginalAmount: originalAmount,
		DiscountAmount: discountAmount,
		FinalAmount:    amount,
		CouponCode:     couponCode,
		CustomerID:     customerID,
		Metadata:       sess.Metadata,
	}, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseAmount(raw string, fallback float64) float64 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

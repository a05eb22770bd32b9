package models

// BookingCheckoutRequest is the payload for creating a hosted checkout
// session for a package booking.
type BookingCheckoutRequest struct {
	PackageID      string `json:"packageId"`
	UserID         string `json:"userId"`
	PackageName    string `json:"packageName"`
	OriginalAmount Amount `json:"originalAmount"`
	Amount         Amount `json:"amount"`
	CouponCode     string `json:"couponCode"`
	DiscountAmount Amount `json:"discountAmount"`
	Currency       string `json:"currency"`
}

// BookingCheckoutResponse echoes the processor session id, the request
// timestamp (unix millis) and the normalized currency actually charged.
// Callers must use this currency rather than re-deriving their own.
type BookingCheckoutResponse struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Currency  string `json:"currency"`
}

// VerifyPaymentRequest is the payload for the synchronous verify endpoint.
type VerifyPaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// PaymentOutcome is the reconciled result of a completed (or pending)
// checkout session. It is derived from processor status plus session
// metadata and never stored.
type PaymentOutcome struct {
	Paid           bool              `json:"paid"`
	Status         string            `json:"status,omitempty"`
	Amount         float64           `json:"amount"`
	OriginalAmount float64           `json:"originalAmount"`
	DiscountAmount float64           `json:"discountAmount"`
	FinalAmount    float64           `json:"finalAmount"`
	CouponCode     *string           `json:"couponCode"`
	CustomerID     *string           `json:"customerId"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

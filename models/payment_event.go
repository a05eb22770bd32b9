package models

import "time"

// Payment types discriminate the two checkout variants in session metadata
// and outbound events.
const (
	PaymentTypePackage = "package"
	PaymentTypeTip     = "tip"
)

// PaymentEvent is published after a successful reconciliation so downstream
// consumers can react to completed payments.
type PaymentEvent struct {
	Type            string    `json:"type"` // e.g. "payment_succeeded"
	PaymentType     string    `json:"payment_type"`
	SessionID       string    `json:"session_id"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty"`
	UserID          string    `json:"user_id,omitempty"`
	Amount          float64   `json:"amount"`   // major units
	Currency        string    `json:"currency"` // lower-case ISO 4217
	Timestamp       time.Time `json:"timestamp"`
}

package models

import "time"

// Recipient types for tip payments.
const (
	RecipientTypeGuide   = "guide"
	RecipientTypeCompany = "company"
)

// TipStatusCompleted is the only status a persisted tip ever carries.
const TipStatusCompleted = "completed"

// TipCheckoutRequest is the payload for creating a hosted checkout session
// for a tip, either to an individual guide or to the company pool.
type TipCheckoutRequest struct {
	Amount        Amount `json:"amount"`
	Currency      string `json:"currency"`
	RecipientType string `json:"recipientType"`
	RecipientID   string `json:"recipientId"`
	RecipientName string `json:"recipientName"`
	UserID        string `json:"userId"`
	UserName      string `json:"userName"`
	Message       string `json:"message"`
	SuccessURL    string `json:"successUrl"`
	CancelURL     string `json:"cancelUrl"`
}

// TipCheckoutResponse carries the processor session id back to the client.
type TipCheckoutResponse struct {
	SessionID string `json:"sessionId"`
}

// TipRecord is the append-only document persisted once per verified tip
// payment. It is never mutated or deleted by this service.
type TipRecord struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	PaymentIntentID string    `bson:"payment_intent_id" json:"paymentIntentId"`
	SessionID       string    `bson:"session_id" json:"sessionId"`
	Amount          float64   `bson:"amount" json:"amount"`
	Currency        string    `bson:"currency" json:"currency"`
	RecipientType   string    `bson:"recipient_type" json:"recipientType"`
	RecipientID     string    `bson:"recipient_id,omitempty" json:"recipientId,omitempty"`
	RecipientName   string    `bson:"recipient_name" json:"recipientName"`
	SenderID        string    `bson:"sender_id,omitempty" json:"senderId,omitempty"`
	SenderName      string    `bson:"sender_name,omitempty" json:"senderName,omitempty"`
	Message         string    `bson:"message,omitempty" json:"message,omitempty"`
	Status          string    `bson:"status" json:"status"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// TipPayment is the client-facing view of a reconciled tip.
type TipPayment struct {
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	RecipientType string  `json:"recipientType"`
	RecipientID   string  `json:"recipientId,omitempty"`
	RecipientName string  `json:"recipientName"`
	Status        string  `json:"status"`
}

// TipVerifyResponse is returned by the synchronous tip verification
// endpoint. An unpaid session yields Success=false with the raw processor
// status and no Payment; it is a re-pollable state, not an error.
type TipVerifyResponse struct {
	Success bool        `json:"success"`
	Status  string      `json:"status,omitempty"`
	Payment *TipPayment `json:"payment,omitempty"`
}

// Guide is a guide document from the document store. Exists distinguishes a
// real record from the degraded fallback carrying only a supplied name.
type Guide struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	FullName    string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	DisplayName string `bson:"displayName,omitempty" json:"displayName,omitempty"`
	Email       string `bson:"email,omitempty" json:"email,omitempty"`
	Exists      bool   `bson:"-" json:"-"`
}

// BestName returns the first non-empty candidate name field.
func (g *Guide) BestName() string {
	for _, n := range []string{g.Name, g.FullName, g.DisplayName} {
		if n != "" {
			return n
		}
	}
	return ""
}

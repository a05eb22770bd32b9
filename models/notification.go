package models

import "time"

// Notification channels and statuses for the email dispatch log.
const (
	ChannelEmail = "email"

	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"

	NotificationTypeGuideTip   = "guide_tip"
	NotificationTypeCompanyTip = "company_tip"
	NotificationTypeAdminCopy  = "admin_copy"
)

// EmailNotification is an append-only log entry for every attempted email
// dispatch, whether it succeeded or not.
type EmailNotification struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Recipient string    `bson:"recipient" json:"recipient"`
	Type      string    `bson:"type" json:"type"`
	Channel   string    `bson:"channel" json:"channel"`
	Status    string    `bson:"status" json:"status"`
	Error     string    `bson:"error,omitempty" json:"error,omitempty"`
	SessionID string    `bson:"session_id,omitempty" json:"sessionId,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

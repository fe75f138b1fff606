package models

import "time"

// EventType names a notification emitted by the services.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPaymentSubmitted       EventType = "payment_submitted"
	EventPaymentApproved        EventType = "payment_approved"
	EventPaymentRejected        EventType = "payment_rejected"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordReset          EventType = "password_reset"
)

// Event is a notification about something that happened to a user or a
// payment. Recipient is the address the notice is meant for; an empty
// recipient means the admin.
type Event struct {
	Type       EventType         `json:"type"`
	Recipient  string            `json:"recipient,omitempty"`
	UserID     string            `json:"userId,omitempty"`
	PaymentID  string            `json:"paymentId,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

package models

import "time"

// MessageStatus represents valid scheduled message statuses. The engine
// only ever writes 'scheduled'; every later transition belongs to the
// downstream sender.
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusScheduled MessageStatus = "scheduled"
	MessageStatusSending   MessageStatus = "sending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusCancelled MessageStatus = "cancelled"
)

// DefaultMaxAttempts is the delivery attempt budget given to the sender
const DefaultMaxAttempts = 3

// ScheduledMessage is a fully rendered, addressed message waiting for the
// downstream sender to pick it up once scheduled_for has passed
type ScheduledMessage struct {
	ID            string        `json:"id" db:"id"`
	WorkflowID    *string       `json:"workflow_id,omitempty" db:"workflow_id"`
	TemplateID    *string       `json:"template_id,omitempty" db:"template_id"`
	LeadID        *string       `json:"lead_id,omitempty" db:"lead_id"`
	Channel       Channel       `json:"channel" db:"channel"`
	Recipient     string        `json:"recipient" db:"recipient"`
	RecipientName string        `json:"recipient_name" db:"recipient_name"`
	Subject       *string       `json:"subject,omitempty" db:"subject"`
	Body          string        `json:"body" db:"body"`
	ScheduledFor  time.Time     `json:"scheduled_for" db:"scheduled_for"`
	Status        MessageStatus `json:"status" db:"status"`
	Attempts      int           `json:"attempts" db:"attempts"`
	MaxAttempts   int           `json:"max_attempts" db:"max_attempts"`
	LastError     *string       `json:"last_error,omitempty" db:"last_error"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// IsDue checks if the message is ready for the sender to pick up
func (m *ScheduledMessage) IsDue(now time.Time) bool {
	return m.Status == MessageStatusScheduled && !m.ScheduledFor.After(now)
}

// CanRetry checks if the sender may attempt delivery again
func (m *ScheduledMessage) CanRetry() bool {
	return m.Status == MessageStatusFailed && m.Attempts < m.MaxAttempts
}

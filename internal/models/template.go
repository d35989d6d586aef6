package models

import (
	"fmt"
	"time"
)

// Channel represents valid delivery channels
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Template represents reusable message content with {{variable}} placeholders
type Template struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Channel    Channel   `json:"channel" db:"channel"`
	Subject    *string   `json:"subject,omitempty" db:"subject"`
	Body       string    `json:"body" db:"body"`
	UsageCount int       `json:"usage_count" db:"usage_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks if the template fields are valid
func (t *Template) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("template name is required")
	}
	if t.Channel != ChannelEmail && t.Channel != ChannelSMS {
		return fmt.Errorf("invalid channel: must be 'email' or 'sms'")
	}
	if t.Body == "" {
		return fmt.Errorf("template body is required")
	}
	if t.Channel == ChannelEmail && (t.Subject == nil || *t.Subject == "") {
		return fmt.Errorf("email templates require a subject")
	}
	return nil
}

// SubjectText returns the subject or an empty string when unset
func (t *Template) SubjectText() string {
	if t.Subject == nil {
		return ""
	}
	return *t.Subject
}

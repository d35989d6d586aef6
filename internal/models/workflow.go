package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ConditionSet holds a workflow's condition map (predicate key -> expected
// value), stored as JSONB
type ConditionSet map[string]any

// Value implements driver.Valuer for JSONB storage
func (c ConditionSet) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conditions: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB storage
func (c *ConditionSet) Scan(src any) error {
	if src == nil {
		*c = ConditionSet{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into ConditionSet", src)
	}

	if len(data) == 0 {
		*c = ConditionSet{}
		return nil
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to unmarshal conditions: %w", err)
	}
	return nil
}

// Workflow represents a persisted automation rule binding a trigger event
// to a template and its scheduling/rate policy
type Workflow struct {
	ID                   string       `json:"id" db:"id"`
	Name                 string       `json:"name" db:"name"`
	TriggerEvent         string       `json:"trigger_event" db:"trigger_event"`
	Conditions           ConditionSet `json:"conditions" db:"conditions"`
	DelayMinutes         int          `json:"delay_minutes" db:"delay_minutes"`
	TemplateID           string       `json:"template_id" db:"template_id"`
	Channel              *Channel     `json:"channel,omitempty" db:"channel"`
	Active               bool         `json:"active" db:"active"`
	Priority             int          `json:"priority" db:"priority"`
	MaxSendsPerLead      int          `json:"max_sends_per_lead" db:"max_sends_per_lead"`
	CooldownHours        int          `json:"cooldown_hours" db:"cooldown_hours"`
	RespectBusinessHours bool         `json:"respect_business_hours" db:"respect_business_hours"`
	BusinessHoursStart   string       `json:"business_hours_start" db:"business_hours_start"`
	BusinessHoursEnd     string       `json:"business_hours_end" db:"business_hours_end"`
	BusinessDays         []int        `json:"business_days" db:"business_days"`
	ExecutionCount       int          `json:"execution_count" db:"execution_count"`
	LastExecutedAt       *time.Time   `json:"last_executed_at,omitempty" db:"last_executed_at"`
	CreatedAt            time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" db:"updated_at"`
}

// Validate checks if the workflow fields are valid
func (w *Workflow) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("workflow name is required")
	}
	if w.TriggerEvent == "" {
		return fmt.Errorf("trigger event is required")
	}
	if w.TemplateID == "" {
		return fmt.Errorf("template reference is required")
	}
	if w.Channel != nil && *w.Channel != ChannelEmail && *w.Channel != ChannelSMS {
		return fmt.Errorf("invalid channel override: must be 'email' or 'sms'")
	}
	if w.DelayMinutes < 0 {
		return fmt.Errorf("delay minutes cannot be negative")
	}
	if w.MaxSendsPerLead < 1 {
		return fmt.Errorf("max sends per lead must be at least 1")
	}
	if w.CooldownHours < 0 {
		return fmt.Errorf("cooldown hours cannot be negative")
	}
	if w.RespectBusinessHours {
		start, err := ParseTimeOfDay(w.BusinessHoursStart)
		if err != nil {
			return fmt.Errorf("invalid business hours start: %w", err)
		}
		end, err := ParseTimeOfDay(w.BusinessHoursEnd)
		if err != nil {
			return fmt.Errorf("invalid business hours end: %w", err)
		}
		if !start.Before(end) {
			return fmt.Errorf("business hours start must be before end")
		}
		if len(w.BusinessDays) == 0 {
			return fmt.Errorf("at least one business day is required")
		}
		for _, d := range w.BusinessDays {
			if d < 1 || d > 7 {
				return fmt.Errorf("invalid business day %d: must be 1 (Monday) to 7 (Sunday)", d)
			}
		}
	}
	return nil
}

// TimeOfDay is a wall-clock time of day, independent of date and zone
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return t, fmt.Errorf("invalid time of day %q: expected HH:MM", s)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return t, fmt.Errorf("invalid time of day %q: out of range", s)
	}
	return t, nil
}

// Before reports whether t is earlier in the day than other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Hour*60+t.Minute < other.Hour*60+other.Minute
}

// On anchors the time of day to the date of the given instant
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

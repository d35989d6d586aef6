package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Payload is the open string-keyed map of event-specific extras carried by
// a trigger context, stored as JSONB on audit records
type Payload map[string]string

// Value implements driver.Valuer for JSONB storage
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB storage
func (p *Payload) Scan(src any) error {
	if src == nil {
		*p = Payload{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Payload", src)
	}

	if len(data) == 0 {
		*p = Payload{}
		return nil
	}

	if err := json.Unmarshal(data, p); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return nil
}

// Get returns the payload value for key, or an empty string when absent
func (p Payload) Get(key string) string {
	if p == nil {
		return ""
	}
	return p[key]
}

// Has checks whether key is present with a non-empty value
func (p Payload) Has(key string) bool {
	return p.Get(key) != ""
}

// TriggerContext is the ephemeral input to one dispatch call: the event
// that happened plus whatever the caller knows about its subject.
// Constructed by the caller, consumed once; portions are copied into the
// audit record but the context itself is never persisted.
type TriggerContext struct {
	EventName   string  `json:"event"`
	LeadID      *string `json:"lead_id,omitempty"`
	CustomerID  *string `json:"customer_id,omitempty"`
	TriggeredBy *string `json:"triggered_by,omitempty"`
	Data        Payload `json:"data,omitempty"`
}

// HasLead checks if the context identifies a lead
func (tc *TriggerContext) HasLead() bool {
	return tc.LeadID != nil && *tc.LeadID != ""
}

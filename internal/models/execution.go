package models

import "time"

// ExecutionStatus represents valid workflow execution statuses.
// An execution is pending only in memory while the pipeline runs; the
// persisted record always carries exactly one terminal status.
type ExecutionStatus string

const (
	ExecutionStatusPending ExecutionStatus = "pending"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusSkipped ExecutionStatus = "skipped"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// WorkflowExecution is the audit record of one dispatch attempt for one
// workflow against one trigger
type WorkflowExecution struct {
	ID                 string          `json:"id" db:"id"`
	WorkflowID         string          `json:"workflow_id" db:"workflow_id"`
	LeadID             *string         `json:"lead_id,omitempty" db:"lead_id"`
	CustomerID         *string         `json:"customer_id,omitempty" db:"customer_id"`
	TriggerEvent       string          `json:"trigger_event" db:"trigger_event"`
	Context            Payload         `json:"context" db:"context"`
	Status             ExecutionStatus `json:"status" db:"status"`
	SkipReason         *string         `json:"skip_reason,omitempty" db:"skip_reason"`
	ErrorMessage       *string         `json:"error_message,omitempty" db:"error_message"`
	ScheduledMessageID *string         `json:"scheduled_message_id,omitempty" db:"scheduled_message_id"`
	StartedAt          time.Time       `json:"started_at" db:"started_at"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

// IsTerminal checks if the execution has reached a terminal status
func (e *WorkflowExecution) IsTerminal() bool {
	return e.Status == ExecutionStatusSuccess ||
		e.Status == ExecutionStatusSkipped ||
		e.Status == ExecutionStatusFailed
}

// MarkSuccess sets the terminal success status with the resulting message
func (e *WorkflowExecution) MarkSuccess(messageID string, at time.Time) {
	e.Status = ExecutionStatusSuccess
	e.ScheduledMessageID = &messageID
	e.CompletedAt = &at
}

// MarkSkipped sets the terminal skipped status with a machine-readable reason
func (e *WorkflowExecution) MarkSkipped(reason string, at time.Time) {
	e.Status = ExecutionStatusSkipped
	e.SkipReason = &reason
	e.CompletedAt = &at
}

// MarkFailed sets the terminal failed status with the error detail
func (e *WorkflowExecution) MarkFailed(errMsg string, at time.Time) {
	e.Status = ExecutionStatusFailed
	e.ErrorMessage = &errMsg
	e.CompletedAt = &at
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

type workflowRepository struct {
	db *sql.DB
}

// NewWorkflowRepository creates a new workflow repository
func NewWorkflowRepository(db *sql.DB) WorkflowRepository {
	return &workflowRepository{db: db}
}

const workflowColumns = `id, name, trigger_event, conditions, delay_minutes, template_id, channel,
		active, priority, max_sends_per_lead, cooldown_hours,
		respect_business_hours, business_hours_start, business_hours_end, business_days,
		execution_count, last_executed_at, created_at, updated_at`

// Create creates a new workflow
func (r *workflowRepository) Create(ctx context.Context, workflow *models.Workflow) error {
	if err := workflow.Validate(); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}
	if workflow.ID == "" {
		workflow.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workflows (id, name, trigger_event, conditions, delay_minutes, template_id, channel,
			active, priority, max_sends_per_lead, cooldown_hours,
			respect_business_hours, business_hours_start, business_hours_end, business_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	var channel sql.NullString
	if workflow.Channel != nil {
		channel = sql.NullString{String: string(*workflow.Channel), Valid: true}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		workflow.ID,
		workflow.Name,
		workflow.TriggerEvent,
		workflow.Conditions,
		workflow.DelayMinutes,
		workflow.TemplateID,
		channel,
		workflow.Active,
		workflow.Priority,
		workflow.MaxSendsPerLead,
		workflow.CooldownHours,
		workflow.RespectBusinessHours,
		workflow.BusinessHoursStart,
		workflow.BusinessHoursEnd,
		intArray(workflow.BusinessDays),
	).Scan(&workflow.CreatedAt, &workflow.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create workflow: %w", err)
	}

	return nil
}

// GetByID retrieves a workflow by ID
func (r *workflowRepository) GetByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM workflows WHERE id = $1`

	workflow, err := scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("workflow not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workflow: %w", err)
	}

	return workflow, nil
}

// ListByTriggerEvent retrieves all active workflows registered for a trigger
// event, highest priority first. Equal priorities tie-break on creation time
// then id, so dispatch order is stable across calls.
func (r *workflowRepository) ListByTriggerEvent(ctx context.Context, event string) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE trigger_event = $1 AND active = true
		ORDER BY priority DESC, created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, event)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows for event: %w", err)
	}
	defer rows.Close()

	return collectWorkflows(rows)
}

// List retrieves workflows with pagination
func (r *workflowRepository) List(ctx context.Context, limit, offset int) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}
	defer rows.Close()

	return collectWorkflows(rows)
}

// IncrementExecution bumps the derived execution counters after a successful
// firing. These are display-only caches; the rate limiter never reads them.
func (r *workflowRepository) IncrementExecution(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE workflows
		SET execution_count = execution_count + 1, last_executed_at = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to increment workflow execution count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("workflow not found")
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkflow(row rowScanner) (*models.Workflow, error) {
	workflow := &models.Workflow{}
	var channel sql.NullString
	var days pq.Int64Array

	err := row.Scan(
		&workflow.ID,
		&workflow.Name,
		&workflow.TriggerEvent,
		&workflow.Conditions,
		&workflow.DelayMinutes,
		&workflow.TemplateID,
		&channel,
		&workflow.Active,
		&workflow.Priority,
		&workflow.MaxSendsPerLead,
		&workflow.CooldownHours,
		&workflow.RespectBusinessHours,
		&workflow.BusinessHoursStart,
		&workflow.BusinessHoursEnd,
		&days,
		&workflow.ExecutionCount,
		&workflow.LastExecutedAt,
		&workflow.CreatedAt,
		&workflow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if channel.Valid {
		c := models.Channel(channel.String)
		workflow.Channel = &c
	}
	workflow.BusinessDays = make([]int, len(days))
	for i, d := range days {
		workflow.BusinessDays[i] = int(d)
	}

	return workflow, nil
}

func collectWorkflows(rows *sql.Rows) ([]*models.Workflow, error) {
	workflows := []*models.Workflow{}
	for rows.Next() {
		workflow, err := scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow row: %w", err)
		}
		workflows = append(workflows, workflow)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workflow rows: %w", err)
	}
	return workflows, nil
}

func intArray(values []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(values))
	for i, v := range values {
		arr[i] = int64(v)
	}
	return arr
}

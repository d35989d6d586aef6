package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

type executionRepository struct {
	db *sql.DB
}

// NewExecutionRepository creates a new execution repository
func NewExecutionRepository(db *sql.DB) ExecutionRepository {
	return &executionRepository{db: db}
}

const executionColumns = `id, workflow_id, lead_id, customer_id, trigger_event, context,
		status, skip_reason, error_message, scheduled_message_id, started_at, completed_at`

// Create persists a workflow execution audit record. Records are written
// once with their terminal status and never updated.
func (r *executionRepository) Create(ctx context.Context, execution *models.WorkflowExecution) error {
	if execution.ID == "" {
		execution.ID = uuid.NewString()
	}

	query := `
		INSERT INTO workflow_executions (id, workflow_id, lead_id, customer_id, trigger_event, context,
			status, skip_reason, error_message, scheduled_message_id, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		execution.ID,
		execution.WorkflowID,
		execution.LeadID,
		execution.CustomerID,
		execution.TriggerEvent,
		execution.Context,
		execution.Status,
		execution.SkipReason,
		execution.ErrorMessage,
		execution.ScheduledMessageID,
		execution.StartedAt,
		execution.CompletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create execution record: %w", err)
	}

	return nil
}

// GetByID retrieves an execution record by ID
func (r *executionRepository) GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE id = $1`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("execution not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get execution: %w", err)
	}

	return execution, nil
}

// List retrieves execution records matching the filters, newest first
func (r *executionRepository) List(ctx context.Context, filters ExecutionFilters) ([]*models.WorkflowExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM workflow_executions WHERE 1=1`
	args := []interface{}{}

	if filters.WorkflowID != nil {
		args = append(args, *filters.WorkflowID)
		query += fmt.Sprintf(" AND workflow_id = $%d", len(args))
	}
	if filters.LeadID != nil {
		args = append(args, *filters.LeadID)
		query += fmt.Sprintf(" AND lead_id = $%d", len(args))
	}
	if filters.Status != nil {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY started_at DESC LIMIT $%d", len(args))
	args = append(args, filters.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}
	defer rows.Close()

	executions := []*models.WorkflowExecution{}
	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution row: %w", err)
		}
		executions = append(executions, execution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate execution rows: %w", err)
	}

	return executions, nil
}

// CountSuccesses counts prior successful executions of a workflow for a lead
func (r *executionRepository) CountSuccesses(ctx context.Context, workflowID, leadID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM workflow_executions
		WHERE workflow_id = $1 AND lead_id = $2 AND status = $3
	`

	var count int
	err := r.db.QueryRowContext(ctx, query, workflowID, leadID, models.ExecutionStatusSuccess).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count successful executions: %w", err)
	}

	return count, nil
}

// LastSuccessAt returns the completion time of the most recent successful
// execution of a workflow for a lead, or nil when there is none
func (r *executionRepository) LastSuccessAt(ctx context.Context, workflowID, leadID string) (*time.Time, error) {
	query := `
		SELECT completed_at
		FROM workflow_executions
		WHERE workflow_id = $1 AND lead_id = $2 AND status = $3 AND completed_at IS NOT NULL
		ORDER BY completed_at DESC
		LIMIT 1
	`

	var completedAt time.Time
	err := r.db.QueryRowContext(ctx, query, workflowID, leadID, models.ExecutionStatusSuccess).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last successful execution: %w", err)
	}

	return &completedAt, nil
}

func scanExecution(row rowScanner) (*models.WorkflowExecution, error) {
	execution := &models.WorkflowExecution{}
	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.LeadID,
		&execution.CustomerID,
		&execution.TriggerEvent,
		&execution.Context,
		&execution.Status,
		&execution.SkipReason,
		&execution.ErrorMessage,
		&execution.ScheduledMessageID,
		&execution.StartedAt,
		&execution.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return execution, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

// WorkflowRepository defines workflow data access operations.
// Workflows are authored by the admin UI; the engine reads them and only
// ever writes the derived execution counters.
type WorkflowRepository interface {
	Create(ctx context.Context, workflow *models.Workflow) error
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	ListByTriggerEvent(ctx context.Context, event string) ([]*models.Workflow, error)
	List(ctx context.Context, limit, offset int) ([]*models.Workflow, error)
	IncrementExecution(ctx context.Context, id string, at time.Time) error
}

// TemplateRepository defines template data access operations
type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	List(ctx context.Context, limit, offset int) ([]*models.Template, error)
	IncrementUsage(ctx context.Context, id string) error
}

// LeadRepository defines lead contact data access operations
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
}

// ExecutionFilters defines filters for listing workflow executions
type ExecutionFilters struct {
	WorkflowID *string
	LeadID     *string
	Status     *models.ExecutionStatus
	Limit      int
	Offset     int
}

// ExecutionRepository defines workflow execution audit data access.
// The count/last-success queries are the rate limiter's source of truth
// and must always hit the durable history, never a cached counter.
type ExecutionRepository interface {
	Create(ctx context.Context, execution *models.WorkflowExecution) error
	GetByID(ctx context.Context, id string) (*models.WorkflowExecution, error)
	List(ctx context.Context, filters ExecutionFilters) ([]*models.WorkflowExecution, error)
	CountSuccesses(ctx context.Context, workflowID, leadID string) (int, error)
	LastSuccessAt(ctx context.Context, workflowID, leadID string) (*time.Time, error)
}

// MessageFilters defines filters for listing scheduled messages
type MessageFilters struct {
	Status *models.MessageStatus
	DueBy  *time.Time
	Limit  int
	Offset int
}

// MessageRepository defines scheduled message data access operations.
// The engine creates records with status 'scheduled'; UpdateStatus exists
// for the downstream sender, which owns all later transitions.
type MessageRepository interface {
	Create(ctx context.Context, message *models.ScheduledMessage) error
	GetByID(ctx context.Context, id string) (*models.ScheduledMessage, error)
	List(ctx context.Context, filters MessageFilters) ([]*models.ScheduledMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.MessageStatus, lastError *string) error
}

// DB is a wrapper around *sql.DB to allow passing in a transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

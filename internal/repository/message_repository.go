package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new scheduled message repository
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

const messageColumns = `id, workflow_id, template_id, lead_id, channel, recipient, recipient_name,
		subject, body, scheduled_for, status, attempts, max_attempts, last_error, created_at, updated_at`

// Create creates a new scheduled message
func (r *messageRepository) Create(ctx context.Context, message *models.ScheduledMessage) error {
	if message.ID == "" {
		message.ID = uuid.NewString()
	}
	if message.MaxAttempts == 0 {
		message.MaxAttempts = models.DefaultMaxAttempts
	}

	query := `
		INSERT INTO scheduled_messages (id, workflow_id, template_id, lead_id, channel, recipient,
			recipient_name, subject, body, scheduled_for, status, max_attempts)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		message.ID,
		message.WorkflowID,
		message.TemplateID,
		message.LeadID,
		message.Channel,
		message.Recipient,
		message.RecipientName,
		message.Subject,
		message.Body,
		message.ScheduledFor,
		message.Status,
		message.MaxAttempts,
	).Scan(&message.CreatedAt, &message.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create scheduled message: %w", err)
	}

	return nil
}

// GetByID retrieves a scheduled message by ID
func (r *messageRepository) GetByID(ctx context.Context, id string) (*models.ScheduledMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM scheduled_messages WHERE id = $1`

	message, err := scanMessage(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scheduled message not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheduled message: %w", err)
	}

	return message, nil
}

// List retrieves scheduled messages matching the filters, soonest first.
// A DueBy filter implements the downstream sender's polling contract:
// status 'scheduled' with scheduled_for at or before the given instant.
func (r *messageRepository) List(ctx context.Context, filters MessageFilters) ([]*models.ScheduledMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM scheduled_messages WHERE 1=1`
	args := []interface{}{}

	if filters.Status != nil {
		args = append(args, *filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filters.DueBy != nil {
		args = append(args, *filters.DueBy)
		query += fmt.Sprintf(" AND scheduled_for <= $%d", len(args))
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY scheduled_for ASC LIMIT $%d", len(args))
	args = append(args, filters.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scheduled messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ScheduledMessage{}
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled message row: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scheduled message rows: %w", err)
	}

	return messages, nil
}

// UpdateStatus updates a message's status and error detail. The engine
// never calls this; it exists for the downstream sender.
func (r *messageRepository) UpdateStatus(ctx context.Context, id string, status models.MessageStatus, lastError *string) error {
	query := `
		UPDATE scheduled_messages
		SET status = $1, last_error = $2, attempts = attempts + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, status, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to update scheduled message status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scheduled message not found")
	}

	return nil
}

func scanMessage(row rowScanner) (*models.ScheduledMessage, error) {
	message := &models.ScheduledMessage{}
	err := row.Scan(
		&message.ID,
		&message.WorkflowID,
		&message.TemplateID,
		&message.LeadID,
		&message.Channel,
		&message.Recipient,
		&message.RecipientName,
		&message.Subject,
		&message.Body,
		&message.ScheduledFor,
		&message.Status,
		&message.Attempts,
		&message.MaxAttempts,
		&message.LastError,
		&message.CreatedAt,
		&message.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return message, nil
}

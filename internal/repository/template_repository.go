package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

type templateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// Create creates a new template
func (r *templateRepository) Create(ctx context.Context, template *models.Template) error {
	if err := template.Validate(); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	if template.ID == "" {
		template.ID = uuid.NewString()
	}

	query := `
		INSERT INTO templates (id, name, channel, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		template.ID,
		template.Name,
		template.Channel,
		template.Subject,
		template.Body,
	).Scan(&template.CreatedAt, &template.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// GetByID retrieves a template by ID
func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	query := `
		SELECT id, name, channel, subject, body, usage_count, created_at, updated_at
		FROM templates
		WHERE id = $1
	`

	template := &models.Template{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&template.ID,
		&template.Name,
		&template.Channel,
		&template.Subject,
		&template.Body,
		&template.UsageCount,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("template not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return template, nil
}

// List retrieves templates with pagination
func (r *templateRepository) List(ctx context.Context, limit, offset int) ([]*models.Template, error) {
	query := `
		SELECT id, name, channel, subject, body, usage_count, created_at, updated_at
		FROM templates
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		template := &models.Template{}
		err := rows.Scan(
			&template.ID,
			&template.Name,
			&template.Channel,
			&template.Subject,
			&template.Body,
			&template.UsageCount,
			&template.CreatedAt,
			&template.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate template rows: %w", err)
	}

	return templates, nil
}

// IncrementUsage bumps the template's derived usage counter
func (r *templateRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE templates
		SET usage_count = usage_count + 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("template not found")
	}

	return nil
}

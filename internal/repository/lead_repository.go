package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/JohnConnorCode/roofing-made-easy-sub002/internal/models"
)

type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create creates a new lead
func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	query := `
		INSERT INTO leads (id, first_name, last_name, email, phone, status, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		lead.ID,
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.Source,
	).Scan(&lead.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// GetByID retrieves a lead by ID
func (r *leadRepository) GetByID(ctx context.Context, id string) (*models.Lead, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, status, source, created_at
		FROM leads
		WHERE id = $1
	`

	lead := &models.Lead{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lead.ID,
		&lead.FirstName,
		&lead.LastName,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.Source,
		&lead.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lead not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return lead, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/checkfox/leadintel/internal/models"
)

// leadRepository is the Postgres implementation of LeadReader
type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new Postgres backed LeadReader
func NewLeadRepository(db *sql.DB) LeadReader {
	return &leadRepository{
		db: db,
	}
}

const leadColumns = `
	id, first_name, last_name, company, email, phone, website,
	industry, source, budget, notes, assigned_to, status, priority,
	category, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row rowScanner) (*models.LeadSnapshot, error) {
	lead := &models.LeadSnapshot{}
	var (
		firstName, lastName, company, email, phone, website sql.NullString
		industry, source, notes, assignedTo                 sql.NullString
		status, priority, category                          sql.NullString
		budget                                              sql.NullFloat64
	)

	err := row.Scan(
		&lead.ID,
		&firstName,
		&lastName,
		&company,
		&email,
		&phone,
		&website,
		&industry,
		&source,
		&budget,
		&notes,
		&assignedTo,
		&status,
		&priority,
		&category,
		&lead.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.FirstName = firstName.String
	lead.LastName = lastName.String
	lead.Company = company.String
	lead.Email = email.String
	lead.Phone = phone.String
	lead.Website = website.String
	lead.Industry = industry.String
	lead.Source = source.String
	lead.Budget = budget.Float64
	lead.Notes = notes.String
	lead.AssignedTo = assignedTo.String
	lead.Status = status.String
	lead.Priority = priority.String
	lead.Category = category.String

	return lead, nil
}

// GetLeadByID retrieves a lead by its ID
func (r *leadRepository) GetLeadByID(ctx context.Context, id int64) (*models.LeadSnapshot, error) {
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE id = $1
	`

	lead, err := scanLead(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leadNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return lead, nil
}

// ListLeadsSince returns leads created at or after since, newest first
func (r *leadRepository) ListLeadsSince(ctx context.Context, since time.Time, limit int) ([]*models.LeadSnapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE created_at >= $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*models.LeadSnapshot, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return leads, nil
}

// GetMarketingSnapshot aggregates lead acquisition since the given time
func (r *leadRepository) GetMarketingSnapshot(ctx context.Context, since time.Time) (*models.MarketingSnapshot, error) {
	query := `
		SELECT
			COALESCE(source, ''), COALESCE(status, ''),
			COALESCE(industry, ''), COALESCE(budget, 0)
		FROM leads
		WHERE created_at >= $1
	`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query marketing snapshot: %w", err)
	}
	defer rows.Close()

	builder := newSnapshotBuilder(since)
	for rows.Next() {
		var source, status, industry string
		var budget float64
		if err := rows.Scan(&source, &status, &industry, &budget); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		builder.add(source, status, industry, budget)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return builder.build(), nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/checkfox/leadintel/internal/models"
)

// GetContactHistory retrieves the most recent contacts of a lead
func (r *leadRepository) GetContactHistory(ctx context.Context, leadID int64, limit int) ([]*models.ContactRecord, error) {
	if limit <= 0 {
		return []*models.ContactRecord{}, nil
	}

	query := `
		SELECT
			id, lead_id, contact_type, outcome, notes, contact_date
		FROM contact_history
		WHERE lead_id = $1
		ORDER BY contact_date DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact history: %w", err)
	}
	defer rows.Close()

	records := make([]*models.ContactRecord, 0, limit)
	for rows.Next() {
		record := &models.ContactRecord{}
		var contactType, outcome, notes sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.LeadID,
			&contactType,
			&outcome,
			&notes,
			&record.ContactedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}

		record.ContactType = contactType.String
		record.Outcome = outcome.String
		record.Notes = notes.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// GetRecentActivities retrieves the most recent activities of a lead
func (r *leadRepository) GetRecentActivities(ctx context.Context, leadID int64, limit int) ([]*models.ActivityRecord, error) {
	if limit <= 0 {
		return []*models.ActivityRecord{}, nil
	}

	query := `
		SELECT
			id, lead_id, activity_type, description, created_at
		FROM activities
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	records := make([]*models.ActivityRecord, 0, limit)
	for rows.Next() {
		record := &models.ActivityRecord{}
		var activityType, description sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.LeadID,
			&activityType,
			&description,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		record.ActivityType = activityType.String
		record.Description = description.String
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

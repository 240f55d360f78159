package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/checkfox/leadintel/internal/models"
)

// ErrLeadNotFound is wrapped by the NotFoundError returned for unknown leads
var ErrLeadNotFound = errors.New("lead not found")

// ConvertedStatus is the lead status counted as a conversion
const ConvertedStatus = "converted"

// DefaultListLimit caps ListLeadsSince when no positive limit is given
const DefaultListLimit = 500

// unknownLabel groups leads whose label column is empty
const unknownLabel = "unknown"

// LeadReader is the read-only data collaborator of the insight engine
type LeadReader interface {
	// GetLeadByID retrieves a lead; unknown ids yield a *models.NotFoundError
	GetLeadByID(ctx context.Context, id int64) (*models.LeadSnapshot, error)

	// GetContactHistory returns at most limit contacts, most recent first
	GetContactHistory(ctx context.Context, leadID int64, limit int) ([]*models.ContactRecord, error)

	// GetRecentActivities returns at most limit activities, most recent first
	GetRecentActivities(ctx context.Context, leadID int64, limit int) ([]*models.ActivityRecord, error)

	// ListLeadsSince returns leads created at or after since, newest first
	ListLeadsSince(ctx context.Context, since time.Time, limit int) ([]*models.LeadSnapshot, error)

	// GetMarketingSnapshot aggregates the leads created at or after since
	GetMarketingSnapshot(ctx context.Context, since time.Time) (*models.MarketingSnapshot, error)
}

func leadNotFound(id int64) error {
	return models.NewNotFoundError("lead", id, ErrLeadNotFound)
}

// snapshotBuilder accumulates a MarketingSnapshot one lead at a time
type snapshotBuilder struct {
	snapshot    *models.MarketingSnapshot
	budgetSum   float64
	budgetCount int
}

func newSnapshotBuilder(since time.Time) *snapshotBuilder {
	return &snapshotBuilder{
		snapshot: &models.MarketingSnapshot{
			Since:      since,
			BySource:   make(map[string]int),
			ByStatus:   make(map[string]int),
			ByIndustry: make(map[string]int),
		},
	}
}

func (b *snapshotBuilder) add(source, status, industry string, budget float64) {
	s := b.snapshot
	s.TotalLeads++
	if strings.EqualFold(strings.TrimSpace(status), ConvertedStatus) {
		s.ConvertedLeads++
	}
	s.BySource[label(source)]++
	s.ByStatus[label(status)]++
	s.ByIndustry[label(industry)]++

	// average over leads that declared a budget
	if budget > 0 {
		b.budgetSum += budget
		b.budgetCount++
	}
}

func (b *snapshotBuilder) build() *models.MarketingSnapshot {
	if b.budgetCount > 0 {
		b.snapshot.AverageBudget = b.budgetSum / float64(b.budgetCount)
	}
	return b.snapshot
}

func label(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return unknownLabel
	}
	return value
}

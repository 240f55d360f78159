package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/checkfox/leadintel/internal/models"
)

// Fixtures is the on-disk shape read by LoadFixtures
type Fixtures struct {
	Leads      []*models.LeadSnapshot   `json:"leads"`
	Contacts   []*models.ContactRecord  `json:"contacts"`
	Activities []*models.ActivityRecord `json:"activities"`
}

// MemoryLeadReader is an in-memory LeadReader for fixtures and tests
type MemoryLeadReader struct {
	mu         sync.RWMutex
	leads      map[int64]*models.LeadSnapshot
	contacts   map[int64][]*models.ContactRecord
	activities map[int64][]*models.ActivityRecord
}

// NewMemoryLeadReader creates an empty in-memory reader
func NewMemoryLeadReader() *MemoryLeadReader {
	return &MemoryLeadReader{
		leads:      make(map[int64]*models.LeadSnapshot),
		contacts:   make(map[int64][]*models.ContactRecord),
		activities: make(map[int64][]*models.ActivityRecord),
	}
}

// LoadFixtures reads a JSON fixtures file into a new MemoryLeadReader
func LoadFixtures(path string) (*MemoryLeadReader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures %s: %w", path, err)
	}

	var fixtures Fixtures
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures %s: %w", path, err)
	}

	return NewMemoryLeadReaderFrom(fixtures), nil
}

// NewMemoryLeadReaderFrom builds a reader preloaded with fixtures
func NewMemoryLeadReaderFrom(fixtures Fixtures) *MemoryLeadReader {
	r := NewMemoryLeadReader()
	for _, lead := range fixtures.Leads {
		r.AddLead(lead)
	}
	for _, contact := range fixtures.Contacts {
		r.AddContact(contact)
	}
	for _, activity := range fixtures.Activities {
		r.AddActivity(activity)
	}
	return r
}

// AddLead stores a copy of lead, replacing any lead with the same id
func (r *MemoryLeadReader) AddLead(lead *models.LeadSnapshot) {
	if lead == nil {
		return
	}
	stored := *lead

	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads[stored.ID] = &stored
}

// AddContact stores a copy of a contact record
func (r *MemoryLeadReader) AddContact(record *models.ContactRecord) {
	if record == nil {
		return
	}
	stored := *record

	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts[stored.LeadID] = append(r.contacts[stored.LeadID], &stored)
}

// AddActivity stores a copy of an activity record
func (r *MemoryLeadReader) AddActivity(record *models.ActivityRecord) {
	if record == nil {
		return
	}
	stored := *record

	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities[stored.LeadID] = append(r.activities[stored.LeadID], &stored)
}

// GetLeadByID retrieves a copy of the lead
func (r *MemoryLeadReader) GetLeadByID(ctx context.Context, id int64) (*models.LeadSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, leadNotFound(id)
	}
	out := *lead
	return &out, nil
}

// GetContactHistory returns at most limit contacts, most recent first
func (r *MemoryLeadReader) GetContactHistory(ctx context.Context, leadID int64, limit int) ([]*models.ContactRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	records := make([]*models.ContactRecord, 0, len(r.contacts[leadID]))
	for _, c := range r.contacts[leadID] {
		out := *c
		records = append(records, &out)
	}
	r.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].ContactedAt.Equal(records[j].ContactedAt) {
			return records[i].ContactedAt.After(records[j].ContactedAt)
		}
		return records[i].ID > records[j].ID
	})
	return truncate(records, limit), nil
}

// GetRecentActivities returns at most limit activities, most recent first
func (r *MemoryLeadReader) GetRecentActivities(ctx context.Context, leadID int64, limit int) ([]*models.ActivityRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	records := make([]*models.ActivityRecord, 0, len(r.activities[leadID]))
	for _, a := range r.activities[leadID] {
		out := *a
		records = append(records, &out)
	}
	r.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
	return truncate(records, limit), nil
}

// ListLeadsSince returns leads created at or after since, newest first
func (r *MemoryLeadReader) ListLeadsSince(ctx context.Context, since time.Time, limit int) ([]*models.LeadSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	leads := r.leadsSince(since)
	sort.SliceStable(leads, func(i, j int) bool {
		if !leads[i].CreatedAt.Equal(leads[j].CreatedAt) {
			return leads[i].CreatedAt.After(leads[j].CreatedAt)
		}
		return leads[i].ID < leads[j].ID
	})
	return truncate(leads, limit), nil
}

// GetMarketingSnapshot aggregates the leads created at or after since
func (r *MemoryLeadReader) GetMarketingSnapshot(ctx context.Context, since time.Time) (*models.MarketingSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	builder := newSnapshotBuilder(since)
	for _, lead := range r.leadsSince(since) {
		builder.add(lead.Source, lead.Status, lead.Industry, lead.Budget)
	}
	return builder.build(), nil
}

func (r *MemoryLeadReader) leadsSince(since time.Time) []*models.LeadSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leads := make([]*models.LeadSnapshot, 0, len(r.leads))
	for _, lead := range r.leads {
		if lead.CreatedAt.Before(since) {
			continue
		}
		out := *lead
		leads = append(leads, &out)
	}
	return leads
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		return items[:0]
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

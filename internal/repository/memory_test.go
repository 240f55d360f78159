package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/checkfox/leadintel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestFixtures(t *testing.T) *MemoryLeadReader {
	t.Helper()
	reader, err := LoadFixtures(filepath.Join("testdata", "leads.json"))
	require.NoError(t, err)
	return reader
}

func TestMemoryLeadReader_GetLeadByID(t *testing.T) {
	reader := loadTestFixtures(t)
	ctx := context.Background()

	lead, err := reader.GetLeadByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Giulia", lead.FirstName)
	assert.Equal(t, 15000.0, lead.Budget)

	// callers get a copy
	lead.FirstName = "changed"
	again, err := reader.GetLeadByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Giulia", again.FirstName)
}

func TestMemoryLeadReader_GetLeadByID_NotFound(t *testing.T) {
	reader := loadTestFixtures(t)

	_, err := reader.GetLeadByID(context.Background(), 999)

	assert.True(t, models.IsNotFound(err))
	assert.True(t, errors.Is(err, ErrLeadNotFound))
}

func TestMemoryLeadReader_ContactHistoryOrderAndLimit(t *testing.T) {
	reader := loadTestFixtures(t)
	ctx := context.Background()

	records, err := reader.GetContactHistory(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(11), records[0].ID, "most recent first")

	records, err = reader.GetContactHistory(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = reader.GetContactHistory(ctx, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryLeadReader_RecentActivities(t *testing.T) {
	reader := loadTestFixtures(t)

	records, err := reader.GetRecentActivities(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "page_visit", records[0].ActivityType)
}

func TestMemoryLeadReader_ListLeadsSince(t *testing.T) {
	reader := loadTestFixtures(t)
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	leads, err := reader.ListLeadsSince(context.Background(), since, 0)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, int64(2), leads[0].ID, "newest first")
	assert.Equal(t, int64(1), leads[1].ID)

	leads, err = reader.ListLeadsSince(context.Background(), since, 1)
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestMemoryLeadReader_GetMarketingSnapshot(t *testing.T) {
	reader := loadTestFixtures(t)
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	snapshot, err := reader.GetMarketingSnapshot(context.Background(), since)
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.TotalLeads)
	assert.Equal(t, 1, snapshot.ConvertedLeads)
	assert.InDelta(t, 9000.0, snapshot.AverageBudget, 1e-9, "leads without budget are excluded")
	assert.Equal(t, map[string]int{"referral": 1, "unknown": 1, "cold call": 1}, snapshot.BySource)
	assert.Equal(t, 1, snapshot.ByStatus["converted"])
	assert.Equal(t, 1, snapshot.ByIndustry["unknown"])
	assert.Equal(t, since, snapshot.Since)
}

func TestMemoryLeadReader_EmptySnapshot(t *testing.T) {
	reader := NewMemoryLeadReader()

	snapshot, err := reader.GetMarketingSnapshot(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Zero(t, snapshot.TotalLeads)
	assert.Zero(t, snapshot.AverageBudget)
	assert.Zero(t, snapshot.ConversionRate())
}

func TestMemoryLeadReader_CancelledContext(t *testing.T) {
	reader := loadTestFixtures(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := reader.GetLeadByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFixtures_Errors(t *testing.T) {
	_, err := LoadFixtures(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = LoadFixtures(path)
	assert.Error(t, err)
}

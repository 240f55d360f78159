package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/checkfox/leadintel/internal/config"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = "../repository/testdata/leads.json"

func testConfig(url string) *config.Config {
	return &config.Config{
		Completion: config.CompletionConfig{
			URL:           url,
			Model:         "test-model",
			MaxTokens:     200,
			Temperature:   0.5,
			Timeout:       time.Second,
			RetryAttempts: 2,
		},
		Cache:   config.CacheConfig{Enabled: true, TTL: time.Hour},
		Scoring: config.ScoringConfig{HotThreshold: 80, WarmThreshold: 60},
	}
}

func completionServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "generated"}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNew_WithFixtures(t *testing.T) {
	var calls atomic.Int32
	server := completionServer(t, &calls)

	a, err := New(context.Background(), testConfig(server.URL), Options{FixturesPath: fixtures, BackoffUnit: time.Millisecond})
	require.NoError(t, err)
	defer a.Close()

	assert.NoError(t, a.HealthCheck(context.Background()))

	result, err := a.Service.AnalyzeLead(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "generated", result.Narrative)
	assert.Equal(t, models.QualityHot, result.Category)

	again, err := a.Service.AnalyzeLead(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, again.Metadata.ServedFromCache)
	assert.Equal(t, int32(1), calls.Load())

	assert.True(t, a.Service.TestConnection(context.Background()))
	assert.NotNil(t, a.Metrics.Registry())
}

func TestNew_CustomThresholds(t *testing.T) {
	var calls atomic.Int32
	server := completionServer(t, &calls)

	cfg := testConfig(server.URL)
	cfg.Scoring = config.ScoringConfig{HotThreshold: 99, WarmThreshold: 20}

	a, err := New(context.Background(), cfg, Options{FixturesPath: fixtures})
	require.NoError(t, err)

	result, err := a.Service.AnalyzeLead(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.QualityWarm, result.Category)
}

func TestNew_LoadsPromptOverrides(t *testing.T) {
	var calls atomic.Int32
	server := completionServer(t, &calls)

	path := filepath.Join(t.TempDir(), "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`prompts:
  lead_trends:
    template: "Trends over {{.period_days}} days: {{.trend_data}}"
`), 0o600))

	cfg := testConfig(server.URL)
	cfg.Prompts.FilePath = path
	_, err := New(context.Background(), cfg, Options{FixturesPath: fixtures})
	require.NoError(t, err)

	cfg.Prompts.FilePath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = New(context.Background(), cfg, Options{FixturesPath: fixtures})
	assert.Error(t, err)
}

func TestNew_MissingFixtures(t *testing.T) {
	_, err := New(context.Background(), testConfig("http://127.0.0.1:1"), Options{FixturesPath: "does-not-exist.json"})
	assert.Error(t, err)
}

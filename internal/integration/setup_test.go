package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/client"
	"github.com/checkfox/leadintel/internal/handlers"
	"github.com/checkfox/leadintel/internal/insights"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/repository"
	"github.com/gorilla/mux"
)

const fixturesPath = "../repository/testdata/leads.json"

// fixedNow places every fixture lead inside a 90 day window
var fixedNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// testEnvironment is an engine wired to a fake completion endpoint
type testEnvironment struct {
	Service *insights.Service
	Router  *mux.Router
	Metrics *metrics.Manager
	Reader  *repository.MemoryLeadReader
}

// testPolicy keeps retries fast: 100ms per attempt, millisecond backoff
func testPolicy() client.Policy {
	return client.Policy{RetryAttempts: 3, Timeout: 100 * time.Millisecond, BackoffUnit: time.Millisecond}
}

func setupTestEnvironment(t *testing.T, completionURL string) *testEnvironment {
	t.Helper()

	reader, err := repository.LoadFixtures(fixturesPath)
	if err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}

	m := metrics.NewManager()
	completer := client.NewCompletionClient(client.Settings{
		URL:         completionURL,
		APIKey:      "sk-test",
		Model:       "test-model",
		MaxTokens:   300,
		Temperature: 0.3,
	}, testPolicy(), client.WithMetrics(m))

	service := insights.NewService(reader, prompts.NewRegistry(), cache.New(true, cache.DefaultTTL, cache.WithMetrics(m)), completer,
		insights.WithMetrics(m),
		insights.WithClock(func() time.Time { return fixedNow }),
	)

	return &testEnvironment{
		Service: service,
		Router:  handlers.NewRouter(service, m, nil),
		Metrics: m,
		Reader:  reader,
	}
}

// writeCompletion answers with an OpenAI style chat completion
func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id": "chatcmpl-test",
		"choices": []map[string]interface{}{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": content}},
		},
	})
}

func (env *testEnvironment) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/checkfox/leadintel/internal/handlers"
	"github.com/checkfox/leadintel/internal/models"
)

// TestErrorScenarios_HTTPStatusMapping tests how engine errors surface over HTTP
func TestErrorScenarios_HTTPStatusMapping(t *testing.T) {
	var calls int32
	completion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeCompletion(w, "unused")
	}))
	defer completion.Close()

	env := setupTestEnvironment(t, completion.URL)

	testCases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
	}{
		{"unknown lead", http.MethodGet, "/api/leads/999/analysis", "", http.StatusNotFound},
		{"non-positive lead id", http.MethodGet, "/api/leads/0/analysis", "", http.StatusBadRequest},
		{"single lead comparison", http.MethodPost, "/api/leads/compare", `{"lead_ids":[1]}`, http.StatusBadRequest},
		{"comparison with unknown lead", http.MethodPost, "/api/leads/compare", `{"lead_ids":[1,999]}`, http.StatusNotFound},
		{"unknown script type", http.MethodPost, "/api/leads/1/scripts", `{"script_type":"haiku"}`, http.StatusBadRequest},
		{"unknown advice type", http.MethodGet, "/api/advice/branding", "", http.StatusBadRequest},
		{"period too long", http.MethodGet, "/api/leads/trends?days=400", "", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			} else {
				req = httptest.NewRequest(tc.method, tc.target, nil)
			}
			rr := env.do(t, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tc.wantStatus, rr.Code, rr.Body.String())
			}

			var response handlers.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			if response.Error == "" || response.CorrelationID == "" {
				t.Errorf("Expected error and correlation id, got %+v", response)
			}
		})
	}
}

// TestErrorScenarios_EmptyContentIsNotRetried tests that a 200 without text falls back after one attempt
func TestErrorScenarios_EmptyContentIsNotRetried(t *testing.T) {
	var attempts int32
	completion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		writeCompletion(w, "")
	}))
	defer completion.Close()

	env := setupTestEnvironment(t, completion.URL)

	result, err := env.Service.GenerateScript(context.Background(), 1, "closing", "")
	if err != nil {
		t.Fatalf("GenerateScript failed: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("Expected 1 attempt, got %d", got)
	}
	if result.Metadata.FallbackReason != "empty_content" {
		t.Errorf("Expected empty_content fallback, got %+v", result.Metadata)
	}
	if !strings.Contains(result.Script, "Giulia") {
		t.Errorf("Expected offline script to address the lead, got %q", result.Script)
	}
}

// TestErrorScenarios_CompletionServiceDown tests every operation with an unreachable completion service
func TestErrorScenarios_CompletionServiceDown(t *testing.T) {
	completion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := completion.URL
	completion.Close()

	env := setupTestEnvironment(t, url)
	ctx := context.Background()

	analysis, err := env.Service.AnalyzeLead(ctx, 1)
	if err != nil {
		t.Fatalf("AnalyzeLead failed: %v", err)
	}
	if analysis.Metadata.FallbackReason != "transport" || analysis.Narrative == "" {
		t.Errorf("Expected transport fallback, got %+v", analysis.Metadata)
	}

	comparison, err := env.Service.CompareLeads(ctx, []int64{1, 2})
	if err != nil {
		t.Fatalf("CompareLeads failed: %v", err)
	}
	if !comparison.Metadata.Fallback || comparison.BestLeadID != 1 {
		t.Errorf("Expected fallback comparison with best lead 1, got %+v", comparison.Metadata)
	}

	trends, err := env.Service.LeadTrends(ctx, 30)
	if err != nil {
		t.Fatalf("LeadTrends failed: %v", err)
	}
	if !trends.Metadata.Fallback || !strings.Contains(trends.Narrative, "2 leads") {
		t.Errorf("Expected fallback trends over 2 leads, got %q", trends.Narrative)
	}

	if env.Service.TestConnection(ctx) {
		t.Error("Expected TestConnection to report false")
	}
}

// TestErrorScenarios_CancelledRequest tests that a cancelled caller gets a transport fallback without retries
func TestErrorScenarios_CancelledRequest(t *testing.T) {
	var attempts int32
	completion := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer completion.Close()

	env := setupTestEnvironment(t, completion.URL)
	env.Reader.AddLead(&models.LeadSnapshot{ID: 50, FirstName: "Late", Email: "late@example.com", CreatedAt: fixedNow})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.Service.AnalyzeLead(ctx, 50)
	if err == nil {
		t.Fatal("Expected the cancelled context to stop the lead lookup")
	}
	if got := atomic.LoadInt32(&attempts); got != 0 {
		t.Errorf("Expected no completion attempts, got %d", got)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/repository"
)

// mockInsightService records the arguments it was called with
type mockInsightService struct {
	err error

	leadID     int64
	ids        []int64
	scriptType string
	extra      string
	adviceType string
	days       int
	connected  bool
	cleared    bool
}

func (m *mockInsightService) AnalyzeLead(ctx context.Context, leadID int64) (*models.InsightResult, error) {
	m.leadID = leadID
	if m.err != nil {
		return nil, m.err
	}
	return &models.InsightResult{Lead: models.LeadIdentity{ID: leadID}, Score: 91, Category: models.QualityHot}, nil
}

func (m *mockInsightService) CompareLeads(ctx context.Context, ids []int64) (*models.ComparisonResult, error) {
	m.ids = ids
	if m.err != nil {
		return nil, m.err
	}
	return &models.ComparisonResult{Count: len(ids), BestLeadID: ids[0]}, nil
}

func (m *mockInsightService) GenerateScript(ctx context.Context, leadID int64, scriptType string, extraContext string) (*models.ScriptResult, error) {
	m.leadID, m.scriptType, m.extra = leadID, scriptType, extraContext
	if m.err != nil {
		return nil, m.err
	}
	return &models.ScriptResult{Lead: models.LeadIdentity{ID: leadID}, ScriptType: models.ScriptType(scriptType)}, nil
}

func (m *mockInsightService) GetAdvice(ctx context.Context, adviceType string, periodDays int) (*models.AdviceResult, error) {
	m.adviceType, m.days = adviceType, periodDays
	if m.err != nil {
		return nil, m.err
	}
	return &models.AdviceResult{AdviceType: models.AdviceType(adviceType), PeriodDays: periodDays}, nil
}

func (m *mockInsightService) LeadTrends(ctx context.Context, periodDays int) (*models.TrendResult, error) {
	m.days = periodDays
	if m.err != nil {
		return nil, m.err
	}
	return &models.TrendResult{PeriodDays: periodDays}, nil
}

func (m *mockInsightService) TestConnection(ctx context.Context) bool {
	return m.connected
}

func (m *mockInsightService) ClearCache() {
	m.cleared = true
}

func (m *mockInsightService) CacheStats() cache.Stats {
	return cache.Stats{Total: 3, Valid: 2, Enabled: true, HitRate: 0.5}
}

func serve(t *testing.T, svc InsightService, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(svc, nil, nil)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHandleAnalysis(t *testing.T) {
	svc := &mockInsightService{}
	rr := serve(t, svc, http.MethodGet, "/api/leads/42/analysis", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.leadID != 42 {
		t.Errorf("Expected lead id 42, got %d", svc.leadID)
	}

	var result models.InsightResult
	if err := json.NewDecoder(rr.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Score != 91 || result.Category != models.QualityHot {
		t.Errorf("Unexpected result: %+v", result)
	}
	if rr.Header().Get(CorrelationHeader) == "" {
		t.Error("Expected correlation header on response")
	}
}

func TestHandleAnalysis_InvalidID(t *testing.T) {
	svc := &mockInsightService{}
	rr := serve(t, svc, http.MethodGet, "/api/leads/abc/analysis", "")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
	if svc.leadID != 0 {
		t.Error("Expected service not to be called")
	}
}

func TestErrorMapping(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{
			name:       "not found",
			err:        models.NewNotFoundError("lead", 7, repository.ErrLeadNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "validation",
			err:        models.NewValidationError("lead_id", "0", "must be positive"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "insufficient input",
			err:        models.NewInsufficientInputError("compare_leads", 2, 1),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unexpected",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := serve(t, &mockInsightService{err: tc.err}, http.MethodGet, "/api/leads/7/analysis", "")
			if rr.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, rr.Code)
			}

			var response ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode error response: %v", err)
			}
			want := tc.wantError
			if want == "" {
				want = tc.err.Error()
			}
			if response.Error != want {
				t.Errorf("Expected error %q, got %q", want, response.Error)
			}
			if response.CorrelationID == "" {
				t.Error("Expected correlation_id to be set")
			}
		})
	}
}

func TestHandleCompare(t *testing.T) {
	svc := &mockInsightService{}
	rr := serve(t, svc, http.MethodPost, "/api/leads/compare", `{"lead_ids":[3,"1",2]}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	want := []int64{3, 1, 2}
	if len(svc.ids) != len(want) {
		t.Fatalf("Expected ids %v, got %v", want, svc.ids)
	}
	for i := range want {
		if svc.ids[i] != want[i] {
			t.Errorf("Expected ids %v, got %v", want, svc.ids)
			break
		}
	}
}

func TestHandleCompare_BadBodies(t *testing.T) {
	testCases := map[string]string{
		"malformed":  `{"lead_ids":`,
		"invalid id": `{"lead_ids":[1,"two"]}`,
	}
	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			svc := &mockInsightService{}
			rr := serve(t, svc, http.MethodPost, "/api/leads/compare", body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rr.Code)
			}
			if svc.ids != nil {
				t.Error("Expected service not to be called")
			}
		})
	}
}

func TestHandleScript(t *testing.T) {
	svc := &mockInsightService{}
	rr := serve(t, svc, http.MethodPost, "/api/leads/5/scripts", `{"script_type":"closing","context":"Budget approved"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if svc.leadID != 5 || svc.scriptType != "closing" || svc.extra != "Budget approved" {
		t.Errorf("Unexpected arguments: id=%d type=%q context=%q", svc.leadID, svc.scriptType, svc.extra)
	}
}

func TestHandleAdviceAndTrends_Period(t *testing.T) {
	svc := &mockInsightService{}

	rr := serve(t, svc, http.MethodGet, "/api/advice/lead_generation", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if svc.adviceType != "lead_generation" || svc.days != DefaultPeriodDays {
		t.Errorf("Unexpected arguments: type=%q days=%d", svc.adviceType, svc.days)
	}

	rr = serve(t, svc, http.MethodGet, "/api/leads/trends?days=90", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if svc.days != 90 {
		t.Errorf("Expected days=90, got %d", svc.days)
	}

	rr = serve(t, svc, http.MethodGet, "/api/leads/trends?days=soon", "")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for non-numeric days, got %d", rr.Code)
	}
}

func TestHandleConnectionAndCache(t *testing.T) {
	svc := &mockInsightService{connected: true}

	rr := serve(t, svc, http.MethodGet, "/api/ai/connection", "")
	var conn ConnectionResponse
	if err := json.NewDecoder(rr.Body).Decode(&conn); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !conn.Connected {
		t.Error("Expected connected=true")
	}

	rr = serve(t, svc, http.MethodGet, "/api/ai/cache", "")
	var stats cache.Stats
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.Total != 3 || stats.Valid != 2 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	rr = serve(t, svc, http.MethodDelete, "/api/ai/cache", "")
	if rr.Code != http.StatusOK || !svc.cleared {
		t.Errorf("Expected cache to be cleared, status %d", rr.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	testCases := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/leads/1/analysis"},
		{http.MethodGet, "/api/leads/compare"},
		{http.MethodPut, "/api/ai/cache"},
	}

	for _, tc := range testCases {
		rr := serve(t, &mockInsightService{}, tc.method, tc.target, "")
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected status 405, got %d", tc.method, tc.target, rr.Code)
			continue
		}
		var resp ErrorResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}
		if resp.Error != "method not allowed" {
			t.Errorf("Expected 'method not allowed', got %q", resp.Error)
		}
	}

	rr := serve(t, &mockInsightService{}, http.MethodGet, "/api/unknown", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for an unknown path, got %d", rr.Code)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	m := metrics.NewManager()
	healthy := true
	router := NewRouter(&mockInsightService{}, m, func(ctx context.Context) error {
		if !healthy {
			return errors.New("database unreachable")
		}
		return nil
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	healthy = false
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `leadintel_http_requests_total{code="503",method="GET",route="/health"} 1`) {
		t.Errorf("Expected health requests in metrics output, got:\n%s", rr.Body.String())
	}
}

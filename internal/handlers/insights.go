package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/gorilla/mux"
	"github.com/spf13/cast"
)

// DefaultPeriodDays is used when a request does not name a period
const DefaultPeriodDays = 30

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// InsightService is the engine API served over HTTP
type InsightService interface {
	AnalyzeLead(ctx context.Context, leadID int64) (*models.InsightResult, error)
	CompareLeads(ctx context.Context, ids []int64) (*models.ComparisonResult, error)
	GenerateScript(ctx context.Context, leadID int64, scriptType string, extraContext string) (*models.ScriptResult, error)
	GetAdvice(ctx context.Context, adviceType string, periodDays int) (*models.AdviceResult, error)
	LeadTrends(ctx context.Context, periodDays int) (*models.TrendResult, error)
	TestConnection(ctx context.Context) bool
	ClearCache()
	CacheStats() cache.Stats
}

// InsightsHandler serves lead analysis, scripts, advice and trends
type InsightsHandler struct {
	service InsightService
}

// NewInsightsHandler creates a new InsightsHandler
func NewInsightsHandler(service InsightService) *InsightsHandler {
	return &InsightsHandler{service: service}
}

// CompareRequest is the body of POST /api/leads/compare. Ids may be numbers
// or numeric strings.
type CompareRequest struct {
	LeadIDs []interface{} `json:"lead_ids"`
}

// ScriptRequest is the body of POST /api/leads/{id}/scripts
type ScriptRequest struct {
	ScriptType string `json:"script_type"`
	Context    string `json:"context"`
}

// ConnectionResponse reports completion service reachability
type ConnectionResponse struct {
	Connected bool `json:"connected"`
}

// ClearCacheResponse confirms a cache clear
type ClearCacheResponse struct {
	Cleared bool        `json:"cleared"`
	Stats   cache.Stats `json:"stats"`
}

// Register mounts the insight routes on router. Routes are registered with
// full paths on the given router so a method mismatch still yields a 405.
func (h *InsightsHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/leads/compare", h.HandleCompare).Methods(http.MethodPost)
	router.HandleFunc("/api/leads/trends", h.HandleTrends).Methods(http.MethodGet)
	router.HandleFunc("/api/leads/{id}/analysis", h.HandleAnalysis).Methods(http.MethodGet)
	router.HandleFunc("/api/leads/{id}/scripts", h.HandleScript).Methods(http.MethodPost)
	router.HandleFunc("/api/advice/{type}", h.HandleAdvice).Methods(http.MethodGet)
	router.HandleFunc("/api/ai/connection", h.HandleConnection).Methods(http.MethodGet)
	router.HandleFunc("/api/ai/cache", h.HandleCacheStats).Methods(http.MethodGet)
	router.HandleFunc("/api/ai/cache", h.HandleClearCache).Methods(http.MethodDelete)
}

// HandleAnalysis handles GET /api/leads/{id}/analysis
func (h *InsightsHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID, ok := leadIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	result, err := h.service.AnalyzeLead(ctx, leadID)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// HandleCompare handles POST /api/leads/compare
func (h *InsightsHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CompareRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	ids := make([]int64, 0, len(req.LeadIDs))
	for _, raw := range req.LeadIDs {
		id, err := cast.ToInt64E(raw)
		if err != nil {
			respondError(ctx, w, http.StatusBadRequest, fmt.Sprintf("invalid lead id %v", raw))
			return
		}
		ids = append(ids, id)
	}

	result, err := h.service.CompareLeads(ctx, ids)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// HandleScript handles POST /api/leads/{id}/scripts
func (h *InsightsHandler) HandleScript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	leadID, ok := leadIDFromPath(ctx, w, r)
	if !ok {
		return
	}

	var req ScriptRequest
	if !decodeBody(ctx, w, r, &req) {
		return
	}

	result, err := h.service.GenerateScript(ctx, leadID, req.ScriptType, req.Context)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// HandleTrends handles GET /api/leads/trends?days=N
func (h *InsightsHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	days, ok := periodFromQuery(ctx, w, r)
	if !ok {
		return
	}

	result, err := h.service.LeadTrends(ctx, days)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// HandleAdvice handles GET /api/advice/{type}?days=N
func (h *InsightsHandler) HandleAdvice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	days, ok := periodFromQuery(ctx, w, r)
	if !ok {
		return
	}

	result, err := h.service.GetAdvice(ctx, mux.Vars(r)["type"], days)
	if err != nil {
		respondServiceError(ctx, w, err)
		return
	}
	respondJSON(ctx, w, http.StatusOK, result)
}

// HandleConnection handles GET /api/ai/connection
func (h *InsightsHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	respondJSON(ctx, w, http.StatusOK, ConnectionResponse{Connected: h.service.TestConnection(ctx)})
}

// HandleCacheStats handles GET /api/ai/cache
func (h *InsightsHandler) HandleCacheStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(r.Context(), w, http.StatusOK, h.service.CacheStats())
}

// HandleClearCache handles DELETE /api/ai/cache
func (h *InsightsHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.service.ClearCache()
	logger.Info(ctx, "Response cache cleared")
	respondJSON(ctx, w, http.StatusOK, ClearCacheResponse{Cleared: true, Stats: h.service.CacheStats()})
}

func leadIDFromPath(ctx context.Context, w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	leadID, err := cast.ToInt64E(raw)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, fmt.Sprintf("invalid lead id %q", raw))
		return 0, false
	}
	return leadID, true
}

func periodFromQuery(ctx context.Context, w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return DefaultPeriodDays, true
	}
	days, err := cast.ToIntE(raw)
	if err != nil {
		respondError(ctx, w, http.StatusBadRequest, fmt.Sprintf("invalid days %q", raw))
		return 0, false
	}
	return days, true
}

func decodeBody(ctx context.Context, w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logger.LogError(ctx, "Failed to read request body", err)
		respondError(ctx, w, http.StatusBadRequest, "failed to read request body")
		return false
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		respondError(ctx, w, http.StatusBadRequest, "malformed JSON payload")
		return false
	}
	return true
}

// respondServiceError maps engine errors onto HTTP statuses. Messages of
// unexpected failures are logged, not returned.
func respondServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case models.IsNotFound(err):
		respondError(ctx, w, http.StatusNotFound, err.Error())
	case models.IsValidation(err), models.IsInsufficientInput(err):
		respondError(ctx, w, http.StatusBadRequest, err.Error())
	default:
		logger.LogError(ctx, "Insight request failed", err)
		respondError(ctx, w, http.StatusInternalServerError, "internal server error")
	}
}

// HealthHandler serves GET /health
type HealthHandler struct {
	check   func(ctx context.Context) error
	timeout time.Duration
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// NewHealthHandler creates a HealthHandler; a nil check always reports healthy
func NewHealthHandler(check func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{check: check, timeout: 5 * time.Second}
}

// ServeHTTP reports 200 when the data store answers, 503 otherwise
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.check != nil {
		checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		if err := h.check(checkCtx); err != nil {
			logger.LogError(ctx, "Health check failed", err)
			respondJSON(ctx, w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}
	respondJSON(ctx, w, http.StatusOK, HealthResponse{Status: "ok"})
}

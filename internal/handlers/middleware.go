package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// CorrelationHeader carries the request correlation id in both directions
const CorrelationHeader = "X-Correlation-ID"

// CorrelationMiddleware tags every request with a correlation id, reusing the
// caller's when one is supplied
type CorrelationMiddleware struct{}

// NewCorrelationMiddleware creates a new CorrelationMiddleware
func NewCorrelationMiddleware() *CorrelationMiddleware {
	return &CorrelationMiddleware{}
}

// Middleware wraps next with correlation id propagation
func (m *CorrelationMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(CorrelationHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		w.Header().Set(CorrelationHeader, correlationID)
		ctx := context.WithValue(r.Context(), logger.CorrelationIDKey, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RecoveryMiddleware recovers from panics and returns 500 Internal Server Error
type RecoveryMiddleware struct{}

// NewRecoveryMiddleware creates a new RecoveryMiddleware
func NewRecoveryMiddleware() *RecoveryMiddleware {
	return &RecoveryMiddleware{}
}

// Middleware wraps next with panic recovery
func (m *RecoveryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				ctx := r.Context()
				correlationID, ok := ctx.Value(logger.CorrelationIDKey).(string)
				if !ok {
					correlationID = uuid.New().String()
					ctx = context.WithValue(ctx, logger.CorrelationIDKey, correlationID)
				}
				logger.Error(ctx, "Panic recovered", "panic", fmt.Sprint(rec), "path", r.URL.Path)

				respondJSON(ctx, w, http.StatusInternalServerError, ErrorResponse{
					Error:         "internal server error",
					CorrelationID: correlationID,
				})
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// MetricsMiddleware counts requests by route template, method and status code
type MetricsMiddleware struct {
	metrics *metrics.Manager
}

// NewMetricsMiddleware creates a new MetricsMiddleware; a nil manager records nothing
func NewMetricsMiddleware(m *metrics.Manager) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Middleware wraps next with request counting
func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(rec.status))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// respondJSON sends a JSON response
func respondJSON(ctx context.Context, w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.LogError(ctx, "Failed to encode response", err)
	}
}

// respondError sends an error response carrying the request correlation id
func respondError(ctx context.Context, w http.ResponseWriter, statusCode int, message string) {
	correlationID, _ := ctx.Value(logger.CorrelationIDKey).(string)
	respondJSON(ctx, w, statusCode, ErrorResponse{
		Error:         message,
		CorrelationID: correlationID,
	})
}

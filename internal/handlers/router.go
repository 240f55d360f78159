package handlers

import (
	"context"
	"net/http"

	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/gorilla/mux"
)

// NewRouter assembles the HTTP surface: insight routes, /health and, when a
// metrics manager is given, /metrics
func NewRouter(service InsightService, m *metrics.Manager, health func(ctx context.Context) error) *mux.Router {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(r.Context(), w, http.StatusMethodNotAllowed, "method not allowed")
	})
	router.Use(
		NewCorrelationMiddleware().Middleware,
		NewRecoveryMiddleware().Middleware,
		NewMetricsMiddleware(m).Middleware,
	)

	NewInsightsHandler(service).Register(router)
	router.Handle("/health", NewHealthHandler(health)).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	return router
}

package insights

import (
	"context"
	"time"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/client"
	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/models"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/repository"
	"github.com/checkfox/leadintel/internal/services"
)

// DefaultCompareConcurrency bounds parallel lead analyses in a comparison
const DefaultCompareConcurrency = 4

// Option configures a Service
type Option func(*Service)

// WithScorer replaces the default 80/60 scorer
func WithScorer(scorer *services.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithMetrics records request outcomes and fallbacks on the given manager
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock replaces time.Now for periods and result timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCompareConcurrency sets how many leads a comparison analyzes at once
func WithCompareConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.compareConcurrency = n
		}
	}
}

// Service is the caller-facing API of the lead intelligence engine. It is
// safe for concurrent use; the response cache is its only shared state.
type Service struct {
	reader             repository.LeadReader
	completer          client.Completer
	cache              *cache.ResponseCache
	scorer             *services.Scorer
	validator          *services.Validator
	normalizer         *services.Normalizer
	mapper             *services.Mapper
	metrics            *metrics.Manager
	now                func() time.Time
	compareConcurrency int
	engine             *engine
}

// NewService wires the orchestrators around their collaborators
func NewService(reader repository.LeadReader, registry *prompts.Registry, responseCache *cache.ResponseCache, completer client.Completer, opts ...Option) *Service {
	s := &Service{
		reader:             reader,
		completer:          completer,
		cache:              responseCache,
		scorer:             services.NewDefaultScorer(),
		validator:          services.NewValidator(),
		normalizer:         services.NewNormalizer(),
		mapper:             services.NewMapper(),
		now:                time.Now,
		compareConcurrency: DefaultCompareConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = &engine{
		registry:  registry,
		cache:     responseCache,
		completer: completer,
		metrics:   s.metrics,
		now:       s.now,
	}
	return s
}

// TestConnection reports whether the completion service answers
func (s *Service) TestConnection(ctx context.Context) bool {
	ok := s.completer.TestConnection(ctx)
	status := "ok"
	if !ok {
		status = "unavailable"
	}
	s.metrics.RecordInsightRequest("test_connection", status)
	return ok
}

// ClearCache drops every cached narrative
func (s *Service) ClearCache() {
	s.cache.Clear()
	s.metrics.RecordInsightRequest("clear_cache", "ok")
}

// CacheStats reports the response cache state
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// observe records the outcome and duration of a caller-facing operation
func (s *Service) observe(ctx context.Context, operation string, start time.Time, err error) {
	s.metrics.RecordInsightRequest(operation, outcomeLabel(err))
	logger.LogSlowOperation(ctx, operation, time.Since(start))
	if err != nil && !models.IsNotFound(err) && !models.IsValidation(err) && !models.IsInsufficientInput(err) {
		logger.LogError(ctx, "Insight operation failed", err, "operation", operation)
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case models.IsNotFound(err):
		return "not_found"
	case models.IsValidation(err), models.IsInsufficientInput(err):
		return "invalid"
	default:
		return "error"
	}
}

// since returns the start of a period ending now
func (s *Service) since(periodDays int) time.Time {
	return s.now().Add(-time.Duration(periodDays) * 24 * time.Hour)
}

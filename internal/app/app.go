// Package app wires the lead intelligence engine from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/checkfox/leadintel/internal/cache"
	"github.com/checkfox/leadintel/internal/client"
	"github.com/checkfox/leadintel/internal/config"
	"github.com/checkfox/leadintel/internal/database"
	"github.com/checkfox/leadintel/internal/insights"
	"github.com/checkfox/leadintel/internal/logger"
	"github.com/checkfox/leadintel/internal/metrics"
	"github.com/checkfox/leadintel/internal/prompts"
	"github.com/checkfox/leadintel/internal/repository"
	"github.com/checkfox/leadintel/internal/services"
)

// backoffUnit is the base of the retry schedule unit*base^attempt
const backoffUnit = time.Second

// Options tune how the engine is assembled
type Options struct {
	// FixturesPath, when set, serves leads from a JSON fixture file
	// instead of Postgres
	FixturesPath string

	// BackoffUnit overrides the retry schedule unit; zero keeps one second
	BackoffUnit time.Duration
}

// App holds the assembled engine and the resources it owns
type App struct {
	Service *insights.Service
	Metrics *metrics.Manager
	db      *database.DB
}

// New assembles the engine: lead reader, prompt registry, response cache,
// completion client and orchestrators
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	m := metrics.NewManager()

	reader, db, err := openReader(ctx, cfg, opts.FixturesPath)
	if err != nil {
		return nil, err
	}

	registry := prompts.NewRegistry()
	if cfg.Prompts.FilePath != "" {
		if err := registry.LoadFile(cfg.Prompts.FilePath); err != nil {
			closeDB(ctx, db)
			return nil, fmt.Errorf("failed to load prompts: %w", err)
		}
		logger.Info(ctx, "Prompt overrides loaded", "path", cfg.Prompts.FilePath)
	}

	unit := opts.BackoffUnit
	if unit <= 0 {
		unit = backoffUnit
	}
	completer := client.NewCompletionClient(client.Settings{
		URL:         cfg.Completion.URL,
		APIKey:      cfg.Completion.APIKey,
		Model:       cfg.Completion.Model,
		MaxTokens:   cfg.Completion.MaxTokens,
		Temperature: cfg.Completion.Temperature,
	}, client.Policy{
		RetryAttempts: cfg.Completion.RetryAttempts,
		Timeout:       cfg.Completion.Timeout,
		BackoffUnit:   unit,
	}, client.WithMetrics(m))

	responseCache := cache.New(cfg.Cache.Enabled, cfg.Cache.TTL, cache.WithMetrics(m))

	service := insights.NewService(reader, registry, responseCache, completer,
		insights.WithScorer(services.NewScorer(cfg.Scoring.HotThreshold, cfg.Scoring.WarmThreshold)),
		insights.WithMetrics(m),
	)

	logger.Info(ctx, "Insight engine ready",
		"model", cfg.Completion.Model,
		"cache_enabled", cfg.Cache.Enabled,
		"cache_ttl", cfg.Cache.TTL.String(),
		"fixtures", opts.FixturesPath != "")

	return &App{Service: service, Metrics: m, db: db}, nil
}

func openReader(ctx context.Context, cfg *config.Config, fixturesPath string) (repository.LeadReader, *database.DB, error) {
	if fixturesPath != "" {
		reader, err := repository.LoadFixtures(fixturesPath)
		if err != nil {
			return nil, nil, err
		}
		return reader, nil, nil
	}

	db, err := database.InitFromConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info(ctx, "Database connection established")
	return db.LeadReader(), db, nil
}

// HealthCheck pings the lead store; fixture-backed engines are always healthy
func (a *App) HealthCheck(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	return a.db.HealthCheck(ctx)
}

// Close releases the database pool, if any
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func closeDB(ctx context.Context, db *database.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.LogError(ctx, "Failed to close database", err)
	}
}

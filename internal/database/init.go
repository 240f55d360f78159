package database

import (
	"context"
	"fmt"

	"github.com/checkfox/leadintel/internal/config"
	"github.com/checkfox/leadintel/internal/repository"
)

// InitFromConfig initializes a database connection from application config
func InitFromConfig(ctx context.Context, cfg *config.Config) (*DB, error) {
	dbConfig := Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}

	db, err := New(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// LeadReader returns the Postgres backed lead reader over this pool
func (db *DB) LeadReader() repository.LeadReader {
	return repository.NewLeadRepository(db.DB)
}

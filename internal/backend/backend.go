// Package backend selects and opens a store implementation based on
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/store"
	"fintrack/internal/store/memory"
	"fintrack/internal/store/postgres"
	"fintrack/internal/store/sqlite"
)

// Type represents the kind of storage backend
type Type string

const (
	Memory   Type = "memory"
	SQLite   Type = "sqlite"
	Postgres Type = "postgres"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Postgres:
		return true
	default:
		return false
	}
}

// Config holds configuration for backend creation
type Config struct {
	Type         Type
	SQLiteDBPath string
	PostgresURL  string
}

// Open creates the configured store. The caller owns the returned store
// and must Close it.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (store.Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	switch cfg.Type {
	case SQLite:
		s, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized SQLite store", "db_path", cfg.SQLiteDBPath)
		return s, nil
	case Postgres:
		s, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres store: %w", err)
		}
		logger.Info("Initialized Postgres store")
		return s, nil
	default:
		logger.Info("Initialized memory store")
		return memory.New(), nil
	}
}

// Package factory selects and opens the configured storage backend. It is a
// separate package so the concrete backends can depend on the store ports
// without a cycle.
package factory

import (
	"context"
	"fmt"

	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/store"
	"gastos/internal/store/file"
	"gastos/internal/store/postgres"
	"gastos/internal/store/sqlite"
)

// Open builds the backend named by cfg.DataBackend. The caller owns the
// returned store and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.DataBackend {
	case config.BackendFile:
		return file.New(cfg.DataDir, logger)
	case config.BackendSQLite:
		return sqlite.New(cfg.SQLiteDBPath, logger)
	case config.BackendPostgres:
		return postgres.New(ctx, cfg.PostgresURL, logger)
	default:
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}
}

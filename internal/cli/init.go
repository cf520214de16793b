// Package cli holds the boot sequence shared by the gastos commands:
// environment loading, logging, configuration and the storage backend.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/store"
	"gastos/internal/store/factory"
)

// Bootstrap loads .env, installs the default logger, and returns the
// validated configuration. Exits the process on a bad configuration so
// commands never run half-configured.
func Bootstrap() (*log.Logger, *config.Config) {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", log.FieldError, err.Error())
		os.Exit(1)
	}
	return logger, cfg
}

// OpenStore opens the configured backend or exits. The caller owns the
// returned store and must Close it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *log.Logger) store.Store {
	st, err := factory.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage backend",
			log.FieldError, err.Error(),
			log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	logger.Info("storage backend ready", log.FieldBackend, cfg.DataBackend)
	return st
}

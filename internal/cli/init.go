// Package cli provides common CLI initialization utilities shared by
// cmd/collapse and cmd/ledger-init.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"collapse/internal/config"
	"collapse/internal/log"
)

// SetupLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and
// sets it as the default. Records go to stderr so stdout stays reserved for
// the report.
func SetupLogger(level, format string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Format:    format,
		Component: log.ComponentApp,
		Output:    os.Stderr,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration, builds the logger it describes
// and validates it. Exits the process on validation failure.
func LoadAndValidateConfig() (*config.Config, *log.Logger) {
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed",
			log.FieldOperation, log.OpStartup,
			log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

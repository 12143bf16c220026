package main

import (
	"fmt"
	"log/slog"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// loadAppConfig loads the application configuration from environment
// variables or config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// setupAppLogger installs the JSON logger as the process default and logs
// a summary of the loaded configuration. Secrets are only reported as present.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment),
		slog.Any("models", cfg.LLM.Models))
	l.Debug("integrations configured",
		slog.Bool("redis_cache", cfg.Cache.RedisAddr != ""),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.Bool("admin_email_present", cfg.Auth.AdminEmail != ""),
		slog.String("payments_currency", cfg.Payments.Currency))

	return l, nil
}

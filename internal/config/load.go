package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "TOURVISTO"

// DefaultModels is the model fallback order used when none is configured.
var DefaultModels = []string{"gemini-2.0-flash-exp", "gemini-1.5-flash", "gemini-pro"}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// A comma separated env value arrives as a single element.
	cfg.LLM.Models = splitList(cfg.LLM.Models)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.environment", "development")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)

	v.SetDefault("llm.models", DefaultModels)
	v.SetDefault("llm.model_timeout_seconds", 60)

	v.SetDefault("images.base_url", "https://api.unsplash.com")
	v.SetDefault("images.per_page", 3)
	v.SetDefault("images.requests_per_second", 5)
	v.SetDefault("images.cache_ttl_seconds", 3600)

	v.SetDefault("payments.currency", "usd")
	v.SetDefault("payments.baseline_price", 1000)
	v.SetDefault("payments.app_base_url", "http://localhost:5173")

	v.SetDefault("countries.base_url", "https://restcountries.com")
	v.SetDefault("countries.requests_per_second", 2)
	v.SetDefault("countries.cache_ttl_seconds", 86400)

	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// bindEnvs registers every key so AutomaticEnv can see keys that have no
// default and are absent from the config file.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"database.url",
		"auth.jwt_secret",
		"auth.admin_email",
		"llm.gemini_api_key",
		"llm.base_url",
		"images.unsplash_access_key",
		"payments.stripe_secret_key",
		"payments.api_url",
		"cache.redis_addr",
		"cache.redis_password",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

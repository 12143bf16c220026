package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"  validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"      validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"       validate:"required"`
	Images    ImagesConfig    `mapstructure:"images"    validate:"required"`
	Payments  PaymentsConfig  `mapstructure:"payments"  validate:"required"`
	Countries CountriesConfig `mapstructure:"countries" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// Environment controls whether error details are exposed to clients.
	Environment string `mapstructure:"environment" validate:"required,oneof=development test production"`
}

// IsProduction reports whether the server runs in the production environment.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"               validate:"required,url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains settings for validating bearer tokens issued by the
// upstream identity provider.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// AdminEmail grants dashboard access to the account with this email.
	AdminEmail           string `mapstructure:"admin_email"            validate:"omitempty,email"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	// Models is the ordered fallback list; the first model that answers wins.
	Models []string `mapstructure:"models" validate:"required,min=1,dive,required"`
	// ModelTimeoutSeconds bounds a single model attempt. Zero disables the bound.
	ModelTimeoutSeconds int `mapstructure:"model_timeout_seconds" validate:"gte=0"`
	// BaseURL overrides the Gemini API endpoint (used by tests and proxies).
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// ImagesConfig configures the Unsplash image search integration.
type ImagesConfig struct {
	UnsplashAccessKey string `mapstructure:"unsplash_access_key" validate:"required"`
	BaseURL           string `mapstructure:"base_url"            validate:"required,url"`
	PerPage           int    `mapstructure:"per_page"            validate:"gte=1,lte=30"`
	RequestsPerSecond int    `mapstructure:"requests_per_second" validate:"gte=1"`
	CacheTTLSeconds   int    `mapstructure:"cache_ttl_seconds"   validate:"gte=0"`
}

// PaymentsConfig configures Stripe payment link creation.
type PaymentsConfig struct {
	StripeSecretKey string `mapstructure:"stripe_secret_key" validate:"required"`
	// APIURL overrides the Stripe API endpoint (used by tests and stripe-mock).
	APIURL   string `mapstructure:"api_url"  validate:"omitempty,url"`
	Currency string `mapstructure:"currency" validate:"required,len=3"`
	// BaselinePrice is used when no price can be read from the generated plan.
	BaselinePrice int64 `mapstructure:"baseline_price" validate:"gt=0"`
	// AppBaseURL is where customers are sent back after paying.
	AppBaseURL string `mapstructure:"app_base_url" validate:"required,url"`
}

// CountriesConfig configures the country catalogue used by the trip form.
type CountriesConfig struct {
	BaseURL           string `mapstructure:"base_url"            validate:"required,url"`
	RequestsPerSecond int    `mapstructure:"requests_per_second" validate:"gte=1"`
	CacheTTLSeconds   int    `mapstructure:"cache_ttl_seconds"   validate:"gte=0"`
}

// CacheConfig configures the Redis cache. An empty Addr disables caching.
type CacheConfig struct {
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

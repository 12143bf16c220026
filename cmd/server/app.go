package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/api"
	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/generation"
	"github.com/tourvisto/tourvisto-api/internal/platform/cache"
	"github.com/tourvisto/tourvisto-api/internal/platform/gemini"
	"github.com/tourvisto/tourvisto-api/internal/platform/metrics"
	"github.com/tourvisto/tourvisto-api/internal/platform/payments"
	"github.com/tourvisto/tourvisto-api/internal/platform/postgres"
	"github.com/tourvisto/tourvisto-api/internal/platform/restcountries"
	"github.com/tourvisto/tourvisto-api/internal/platform/unsplash"
	"github.com/tourvisto/tourvisto-api/internal/service"
	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

// cacheKeyPrefix namespaces this service's keys in a shared Redis.
const cacheKeyPrefix = "tourvisto:"

// application holds the shared dependencies of the server and releases
// them on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	closers []io.Closer

	jwtService       auth.JWTService
	pipeline         service.TripPipeline
	tripService      service.TripService
	userService      service.UserService
	dashboardService service.DashboardService
	countryService   api.CountryLister

	// healthCheck reports whether the server can serve traffic.
	healthCheck func(ctx context.Context) error
}

// newApplication wires every component from configuration.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		healthCheck: func(ctx context.Context) error {
			return db.PingContext(ctx)
		},
	}

	if cfg.Metrics.Enabled {
		app.metrics = metrics.New()
		if err := app.metrics.RegisterDB(db, "tourvisto"); err != nil {
			return nil, fmt.Errorf("failed to register database metrics: %w", err)
		}
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	responseCache := app.setupCache(ctx)

	tripStore := postgres.NewPostgresTripStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, logger)

	// Text generation
	modelClient, err := gemini.NewClient(ctx, logger, cfg.LLM, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	generator, err := generation.NewFallbackGenerator(modelClient, cfg.LLM.Models, logger,
		generation.WithAttemptTimeout(time.Duration(cfg.LLM.ModelTimeoutSeconds)*time.Second),
		generation.WithAttemptHook(func(a generation.Attempt) {
			app.metrics.ObserveModelAttempt(a.Model, a.Err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text generator: %w", err)
	}
	logger.Info("text generator initialized", slog.Any("models", generator.Models()))

	// Best-effort collaborators
	images, err := unsplash.NewClient(cfg.Images, responseCache, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image search: %w", err)
	}
	paymentLinks, err := payments.NewClient(cfg.Payments, nil, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize payments: %w", err)
	}

	app.pipeline, err = service.NewTripPipeline(generator, images, paymentLinks, tripStore, logger,
		service.WithObserver(app.metrics),
		service.WithBaselinePrice(cfg.Payments.BaselinePrice),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip pipeline: %w", err)
	}

	app.tripService, err = service.NewTripService(tripStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create trip service: %w", err)
	}
	app.dashboardService, err = service.NewDashboardService(userStore, tripStore, time.Now, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}
	app.userService = service.NewUserService(userStore, db, logger)
	app.countryService = service.NewCountryService(
		restcountries.NewClient(cfg.Countries, responseCache, app.metrics, logger),
		logger,
	)

	logger.Info("application initialized")
	return app, nil
}

// setupCache connects to Redis when configured. An unreachable Redis
// disables caching instead of failing startup.
func (app *application) setupCache(ctx context.Context) cache.Cache {
	cfg := app.config.Cache
	if cfg.RedisAddr == "" {
		return cache.Nop{}
	}

	var obs cache.Observer
	if app.metrics != nil {
		obs = app.metrics
	}
	redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cacheKeyPrefix, obs)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		app.logger.Warn("redis unavailable, caching disabled",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()))
		_ = redisCache.Close()
		return cache.Nop{}
	}

	app.closers = append(app.closers, redisCache)
	app.logger.Info("redis cache connected", slog.String("addr", cfg.RedisAddr))
	return redisCache
}

// Run serves HTTP until ctx is cancelled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for _, c := range app.closers {
		if err := c.Close(); err != nil {
			app.logger.Error("error closing resource", slog.String("error", err.Error()))
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tourvisto/tourvisto-api/internal/api"
	apiMiddleware "github.com/tourvisto/tourvisto-api/internal/api/middleware"
	"github.com/tourvisto/tourvisto-api/internal/api/shared"
)

// setupRouter registers all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(middleware.Recoverer)
	if app.metrics != nil {
		r.Use(apiMiddleware.NewMetricsMiddleware(app.metrics))
	}

	exposeDetails := !app.config.Server.IsProduction()
	tripHandler := api.NewTripHandler(app.pipeline, app.tripService, exposeDetails, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)
	dashboardHandler := api.NewDashboardHandler(app.dashboardService, app.logger)
	countryHandler := api.NewCountryHandler(app.countryService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.config.Auth.AdminEmail)

	r.Route("/api", func(r chi.Router) {
		// Public endpoints; a bearer token, when sent, pins the trip owner.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Post("/create-trip", tripHandler.CreateTrip)
			r.Get("/trips", tripHandler.ListTrips)
			r.Get("/trips/{id}", tripHandler.GetTrip)
			r.Get("/countries", countryHandler.ListCountries)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/me", userHandler.GetProfile)
			r.Put("/me", userHandler.SyncProfile)
			r.Get("/me/trips", tripHandler.ListMyTrips)

			r.With(authMiddleware.RequireAdmin).Get("/admin/dashboard", dashboardHandler.GetStats)
		})
	})

	r.Get("/health", app.handleHealth)
	if app.metrics != nil {
		r.Method(http.MethodGet, app.config.Metrics.Path, app.metrics.Handler())
	}

	return r
}

func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	if app.healthCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := app.healthCheck(ctx); err != nil {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Service unavailable", err)
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

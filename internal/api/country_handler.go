package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// CountryLister lists the countries offered by the trip form.
type CountryLister interface {
	ListCountries(ctx context.Context) (countries []domain.Country, fallback bool)
}

// CountryHandler serves the country catalogue.
type CountryHandler struct {
	countries CountryLister
	logger    *slog.Logger
}

// NewCountryHandler creates a new CountryHandler
func NewCountryHandler(countries CountryLister, logger *slog.Logger) *CountryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CountryHandler")
	}
	return &CountryHandler{
		countries: countries,
		logger:    logger.With(slog.String("component", "country_handler")),
	}
}

// ListCountries handles GET /api/countries. It never fails.
func (h *CountryHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	countries, fallback := h.countries.ListCountries(r.Context())
	if fallback {
		logger.FromContextOrDefault(r.Context(), h.logger).Debug("serving fallback country list")
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CountriesResponse{
		Countries: countries,
		Fallback:  fallback,
	})
}

package service

import (
	"context"
	"log/slog"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
)

// CountrySource lists the countries a trip can be planned for.
type CountrySource interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
}

// CountryService serves the country list of the trip form.
type CountryService struct {
	source CountrySource
	logger *slog.Logger
}

// NewCountryService creates a CountryService. A nil source always yields
// the fallback list.
func NewCountryService(source CountrySource, log *slog.Logger) *CountryService {
	if log == nil {
		log = slog.Default()
	}
	return &CountryService{
		source: source,
		logger: log.With(slog.String("component", "country_service")),
	}
}

// ListCountries never fails: when the source errors or returns nothing the
// fallback list is returned and fallback is true.
func (s *CountryService) ListCountries(ctx context.Context) (countries []domain.Country, fallback bool) {
	if s.source == nil {
		return domain.FallbackCountries(), true
	}

	countries, err := s.source.ListCountries(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("country source failed, using fallback",
			slog.String("error", err.Error()))
		return domain.FallbackCountries(), true
	}
	if len(countries) == 0 {
		return domain.FallbackCountries(), true
	}
	return countries, false
}

package mocks

import (
	"context"
	"sync/atomic"

	"github.com/tourvisto/tourvisto-api/internal/domain"
)

// MockCountrySource implements service.CountrySource for testing.
type MockCountrySource struct {
	ListCountriesFn func(ctx context.Context) ([]domain.Country, error)

	Countries []domain.Country
	Err       error

	calls atomic.Int32
}

// ListCountries implements service.CountrySource.
func (m *MockCountrySource) ListCountries(ctx context.Context) ([]domain.Country, error) {
	m.calls.Add(1)
	if m.ListCountriesFn != nil {
		return m.ListCountriesFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Countries, nil
}

// CallCount returns the number of ListCountries calls.
func (m *MockCountrySource) CallCount() int {
	return int(m.calls.Load())
}

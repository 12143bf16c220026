package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// Catalogue sizes
const (
	CataloguePageSize = 8
	RelatedTripsLimit = 4
	UserTripsLimit    = 100

	// MaxCataloguePage keeps the row offset within a 32-bit integer.
	MaxCataloguePage = math.MaxInt32 / CataloguePageSize
)

// TripDetail is a trip together with a few other trips to explore.
type TripDetail struct {
	Trip    *domain.Trip   `json:"trip"`
	Related []*domain.Trip `json:"relatedTrips"`
}

// TripService provides read access to stored trips.
type TripService interface {
	// ListTrips returns one page of the catalogue, newest first. Pages start at 1.
	ListTrips(ctx context.Context, page int) (*domain.TripPage, error)

	// GetTripDetail returns a trip and up to RelatedTripsLimit other recent trips.
	GetTripDetail(ctx context.Context, id uuid.UUID) (*TripDetail, error)

	// ListUserTrips returns the trips owned by userID, newest first.
	ListUserTrips(ctx context.Context, userID string) ([]*domain.Trip, error)
}

// TripServiceImpl implements the TripService interface
type TripServiceImpl struct {
	trips  store.TripStore
	logger *slog.Logger
}

// NewTripService creates a new TripService
func NewTripService(trips store.TripStore, log *slog.Logger) (*TripServiceImpl, error) {
	if trips == nil {
		return nil, fmt.Errorf("trip store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &TripServiceImpl{
		trips:  trips,
		logger: log.With(slog.String("component", "trip_service")),
	}, nil
}

// Ensure TripServiceImpl implements TripService interface
var _ TripService = (*TripServiceImpl)(nil)

// ListTrips implements TripService.ListTrips
func (s *TripServiceImpl) ListTrips(ctx context.Context, page int) (*domain.TripPage, error) {
	if page < 1 || page > MaxCataloguePage {
		return nil, ErrInvalidPage
	}

	var (
		trips []*domain.Trip
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trips, err = s.trips.List(gctx, CataloguePageSize, (page-1)*CataloguePageSize)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.trips.Count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load trip catalogue",
			slog.Int("page", page),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load trip catalogue: %w", err)
	}

	return &domain.TripPage{
		Trips:    trips,
		Total:    total,
		Page:     page,
		PageSize: CataloguePageSize,
	}, nil
}

// GetTripDetail implements TripService.GetTripDetail
// The trip and the related list are loaded concurrently.
func (s *TripServiceImpl) GetTripDetail(ctx context.Context, id uuid.UUID) (*TripDetail, error) {
	var (
		trip   *domain.Trip
		recent []*domain.Trip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trip, err = s.trips.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		// One extra row in case the trip itself is among the most recent.
		recent, err = s.trips.List(gctx, RelatedTripsLimit+1, 0)
		return err
	})
	if err := g.Wait(); err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load trip detail",
				slog.String("trip_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to load trip %s: %w", id, err)
	}

	related := make([]*domain.Trip, 0, RelatedTripsLimit)
	for _, t := range recent {
		if t.ID == id {
			continue
		}
		if len(related) == RelatedTripsLimit {
			break
		}
		related = append(related, t)
	}

	return &TripDetail{Trip: trip, Related: related}, nil
}

// ListUserTrips implements TripService.ListUserTrips
func (s *TripServiceImpl) ListUserTrips(ctx context.Context, userID string) ([]*domain.Trip, error) {
	if userID == "" {
		return nil, domain.NewValidationError(domain.FieldUserID, "User ID is required")
	}

	trips, err := s.trips.ListByUser(ctx, userID, UserTripsLimit, 0)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list user trips",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list trips for user: %w", err)
	}
	return trips, nil
}

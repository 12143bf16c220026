package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// DashboardService computes the admin dashboard summary.
type DashboardService interface {
	GetStats(ctx context.Context) (*domain.DashboardStats, error)
}

// DashboardServiceImpl implements the DashboardService interface
type DashboardServiceImpl struct {
	users  store.UserStore
	trips  store.TripStore
	now    func() time.Time
	logger *slog.Logger
}

// NewDashboardService creates a new DashboardService. A nil now uses time.Now.
func NewDashboardService(
	users store.UserStore,
	trips store.TripStore,
	now func() time.Time,
	log *slog.Logger,
) (*DashboardServiceImpl, error) {
	if users == nil || trips == nil {
		return nil, fmt.Errorf("user and trip stores are required")
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &DashboardServiceImpl{
		users:  users,
		trips:  trips,
		now:    now,
		logger: log.With(slog.String("component", "dashboard_service")),
	}, nil
}

// Ensure DashboardServiceImpl implements DashboardService interface
var _ DashboardService = (*DashboardServiceImpl)(nil)

// GetStats implements DashboardService.GetStats
// Months are calendar months in UTC.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	prev, cur, next := domain.MonthBounds(s.now().UTC())

	var totalUsers, usersCur, usersPrev, totalTrips, tripsCur, tripsPrev int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { totalUsers, err = s.users.Count(gctx); return })
	g.Go(func() (err error) { usersCur, err = s.users.CountJoinedBetween(gctx, cur, next); return })
	g.Go(func() (err error) { usersPrev, err = s.users.CountJoinedBetween(gctx, prev, cur); return })
	g.Go(func() (err error) { totalTrips, err = s.trips.Count(gctx); return })
	g.Go(func() (err error) { tripsCur, err = s.trips.CountCreatedBetween(gctx, cur, next); return })
	g.Go(func() (err error) { tripsPrev, err = s.trips.CountCreatedBetween(gctx, prev, cur); return })

	if err := g.Wait(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute dashboard stats",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
	}

	return &domain.DashboardStats{
		TotalUsers:   totalUsers,
		UsersJoined:  domain.NewMonthlyCount(usersCur, usersPrev),
		TotalTrips:   totalTrips,
		TripsCreated: domain.NewMonthlyCount(tripsCur, tripsPrev),
	}, nil
}

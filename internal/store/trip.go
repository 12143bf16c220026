package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/tourvisto/tourvisto-api/internal/domain"
)

// TripStore defines the interface for trip data persistence.
type TripStore interface {
	// Create saves a new trip. The trip is validated first and
	// ErrInvalidEntity is returned when validation fails.
	Create(ctx context.Context, trip *domain.Trip) error

	// AttachPaymentLink sets the payment link of an existing trip.
	// Returns ErrTripNotFound if the trip does not exist.
	AttachPaymentLink(ctx context.Context, id uuid.UUID, url string) error

	// GetByID retrieves a trip by its unique ID.
	// Returns ErrTripNotFound if the trip does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error)

	// List returns trips ordered newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.Trip, error)

	// ListByUser returns the trips owned by userID, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Trip, error)

	// Count returns the total number of trips.
	Count(ctx context.Context) (int, error)

	// CountCreatedBetween counts trips created in [from, to).
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)

	// WithTx returns a TripStore that uses the provided transaction.
	WithTx(tx *sql.Tx) TripStore
}

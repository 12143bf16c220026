package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

const tripColumns = `id, user_id, trip_details, image_urls, name, estimated_price,
	tags, duration, description, payment_link, created_at`

// PostgresTripStore implements the store.TripStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTripStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTripStore creates a new PostgreSQL implementation of the TripStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTripStore(db store.DBTX, logger *slog.Logger) *PostgresTripStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTripStore{
		db:     db,
		logger: logger.With(slog.String("component", "trip_store")),
	}
}

// Ensure PostgresTripStore implements store.TripStore interface
var _ store.TripStore = (*PostgresTripStore)(nil)

// Create implements store.TripStore.Create
func (s *PostgresTripStore) Create(ctx context.Context, trip *domain.Trip) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := trip.Validate(); err != nil {
		log.Warn("trip validation failed during create",
			slog.String("error", err.Error()),
			slog.String("trip_id", trip.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	images, err := encodeStrings(trip.ImageURLs)
	if err != nil {
		return fmt.Errorf("%w: image urls: %w", store.ErrInvalidEntity, err)
	}
	tags, err := encodeStrings(trip.Tags)
	if err != nil {
		return fmt.Errorf("%w: tags: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		trip.ID,
		trip.UserID,
		[]byte(trip.Details),
		images,
		trip.Name,
		trip.EstimatedPrice,
		tags,
		trip.Duration,
		trip.Description,
		trip.PaymentLink,
		trip.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create trip",
			slog.String("error", err.Error()),
			slog.String("trip_id", trip.ID.String()),
			slog.String("user_id", trip.UserID))
		return store.NewStoreError("trip", "create", "insert failed", MapError(err))
	}

	log.Info("trip created successfully",
		slog.String("trip_id", trip.ID.String()),
		slog.String("user_id", trip.UserID))
	return nil
}

// AttachPaymentLink implements store.TripStore.AttachPaymentLink
func (s *PostgresTripStore) AttachPaymentLink(ctx context.Context, id uuid.UUID, url string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE trips SET payment_link = $1 WHERE id = $2`, url, id)
	if err != nil {
		log.Error("failed to attach payment link",
			slog.String("error", err.Error()),
			slog.String("trip_id", id.String()))
		return store.NewStoreError("trip", "update", "payment link update failed", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrTripNotFound); err != nil {
		log.Debug("trip not found for payment link", slog.String("trip_id", id.String()))
		return err
	}

	log.Debug("payment link attached", slog.String("trip_id", id.String()))
	return nil
}

// GetByID implements store.TripStore.GetByID
func (s *PostgresTripStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1`, id)

	trip, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("trip not found", slog.String("trip_id", id.String()))
			return nil, store.ErrTripNotFound
		}
		log.Error("failed to get trip",
			slog.String("error", err.Error()),
			slog.String("trip_id", id.String()))
		return nil, store.NewStoreError("trip", "get", "query failed", MapError(err))
	}

	return trip, nil
}

// List implements store.TripStore.List
func (s *PostgresTripStore) List(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2`
	return s.queryTrips(ctx, "list", query, limit, offset)
}

// ListByUser implements store.TripStore.ListByUser
func (s *PostgresTripStore) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`
	return s.queryTrips(ctx, "list_by_user", query, userID, limit, offset)
}

// Count implements store.TripStore.Count
func (s *PostgresTripStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&n); err != nil {
		return 0, store.NewStoreError("trip", "count", "query failed", MapError(err))
	}
	return n, nil
}

// CountCreatedBetween implements store.TripStore.CountCreatedBetween
func (s *PostgresTripStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM trips WHERE created_at >= $1 AND created_at < $2`,
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, store.NewStoreError("trip", "count", "query failed", MapError(err))
	}
	return n, nil
}

// WithTx implements store.TripStore.WithTx
func (s *PostgresTripStore) WithTx(tx *sql.Tx) store.TripStore {
	return &PostgresTripStore{db: tx, logger: s.logger}
}

func (s *PostgresTripStore) queryTrips(
	ctx context.Context,
	op string,
	query string,
	args ...any,
) ([]*domain.Trip, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query trips", slog.String("operation", op), slog.String("error", err.Error()))
		return nil, store.NewStoreError("trip", op, "query failed", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Error("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	trips := make([]*domain.Trip, 0)
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, store.NewStoreError("trip", op, "scan failed", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("trip", op, "row iteration failed", MapError(err))
	}

	log.Debug("trips retrieved", slog.String("operation", op), slog.Int("count", len(trips)))
	return trips, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (*domain.Trip, error) {
	var (
		trip         domain.Trip
		details      []byte
		images, tags []byte
	)

	err := row.Scan(
		&trip.ID,
		&trip.UserID,
		&details,
		&images,
		&trip.Name,
		&trip.EstimatedPrice,
		&tags,
		&trip.Duration,
		&trip.Description,
		&trip.PaymentLink,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	trip.Details = json.RawMessage(details)
	if trip.ImageURLs, err = decodeStrings(images); err != nil {
		return nil, fmt.Errorf("decode image urls: %w", err)
	}
	if trip.Tags, err = decodeStrings(tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	trip.CreatedAt = trip.CreatedAt.UTC()

	return &trip, nil
}

// encodeStrings stores nil as an empty JSON array.
func encodeStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

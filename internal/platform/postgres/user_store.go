package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (account_id, name, email, image_url, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, user.AccountID, user.Name, user.Email, user.ImageURL, user.JoinedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("user already exists", slog.String("account_id", user.AccountID))
			return fmt.Errorf("%w: user %s", store.ErrDuplicate, user.AccountID)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("account_id", user.AccountID))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	log.Info("user created successfully", slog.String("account_id", user.AccountID))
	return nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = $1, email = $2, image_url = $3
		WHERE account_id = $4
	`, user.Name, user.Email, user.ImageURL, user.AccountID)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("account_id", user.AccountID))
		return store.NewStoreError("user", "update", "update failed", MapError(err))
	}

	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// GetByAccountID implements store.UserStore.GetByAccountID
func (s *PostgresUserStore) GetByAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT account_id, name, email, image_url, joined_at
		FROM users
		WHERE account_id = $1
	`, accountID).Scan(&user.AccountID, &user.Name, &user.Email, &user.ImageURL, &user.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("account_id", accountID))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	user.JoinedAt = user.JoinedAt.UTC()
	return &user, nil
}

// Count implements store.UserStore.Count
func (s *PostgresUserStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, store.NewStoreError("user", "count", "query failed", MapError(err))
	}
	return n, nil
}

// CountJoinedBetween implements store.UserStore.CountJoinedBetween
func (s *PostgresUserStore) CountJoinedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE joined_at >= $1 AND joined_at < $2`,
		from, to,
	).Scan(&n)
	if err != nil {
		return 0, store.NewStoreError("user", "count", "query failed", MapError(err))
	}
	return n, nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

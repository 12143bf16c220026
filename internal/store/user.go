package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/domain"
)

// UserStore defines the interface for user profile persistence.
type UserStore interface {
	// Create saves a new user profile.
	// Returns ErrDuplicate if the account already has a profile.
	Create(ctx context.Context, user *domain.User) error

	// Update changes the name, email and image of an existing profile.
	// JoinedAt is never modified. Returns ErrUserNotFound if absent.
	Update(ctx context.Context, user *domain.User) error

	// GetByAccountID retrieves a profile by its account ID.
	// Returns ErrUserNotFound if the profile does not exist.
	GetByAccountID(ctx context.Context, accountID string) (*domain.User, error)

	// Count returns the total number of users.
	Count(ctx context.Context) (int, error)

	// CountJoinedBetween counts users who joined in [from, to).
	CountJoinedBetween(ctx context.Context, from, to time.Time) (int, error)

	// WithTx returns a UserStore that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}

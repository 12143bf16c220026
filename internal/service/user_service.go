package service

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

// ProfileInput carries the profile fields reported by the identity provider.
type ProfileInput struct {
	Name     string `json:"name"     validate:"required,max=200"`
	Email    string `json:"email"    validate:"required,email"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

// UserService manages traveller profiles.
type UserService interface {
	// SyncProfile creates the profile of accountID on first sign-in and
	// refreshes its name, email and image afterwards. JoinedAt is kept.
	SyncProfile(ctx context.Context, accountID string, in ProfileInput) (*domain.User, error)

	// GetProfile retrieves the profile of accountID.
	GetProfile(ctx context.Context, accountID string) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	db        *sql.DB
	now       func() time.Time
	logger    *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userStore store.UserStore, db *sql.DB, log *slog.Logger) *UserServiceImpl {
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		userStore: userStore,
		db:        db,
		now:       time.Now,
		logger:    log.With(slog.String("component", "user_service")),
	}
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// SyncProfile implements UserService.SyncProfile
// The lookup and the write run in one transaction.
func (s *UserServiceImpl) SyncProfile(
	ctx context.Context,
	accountID string,
	in ProfileInput,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		existing, err := txStore.GetByAccountID(ctx, accountID)
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			user, err := domain.NewUser(accountID, in.Name, in.Email, in.ImageURL, s.now())
			if err != nil {
				return err
			}
			if err := txStore.Create(ctx, user); err != nil {
				return err
			}
			log.Info("user profile created", slog.String("account_id", accountID))
			result = user
			return nil
		case err != nil:
			return err
		}

		updated := *existing
		updated.Name = in.Name
		updated.Email = in.Email
		updated.ImageURL = in.ImageURL
		if err := updated.Validate(); err != nil {
			return err
		}
		if err := txStore.Update(ctx, &updated); err != nil {
			return err
		}
		log.Debug("user profile refreshed", slog.String("account_id", accountID))
		result = &updated
		return nil
	})
	if err != nil {
		log.Error("failed to sync user profile",
			slog.String("account_id", accountID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to sync user profile: %w", err)
	}

	return result, nil
}

// GetProfile implements UserService.GetProfile
func (s *UserServiceImpl) GetProfile(ctx context.Context, accountID string) (*domain.User, error) {
	user, err := s.userStore.GetByAccountID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("account_id", accountID),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

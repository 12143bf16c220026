package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/mocks"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestUserService_SyncProfileCreates(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	users := mocks.NewMockUserStore()
	svc := NewUserService(users, db, nil)
	svc.now = func() time.Time { return fixedNow }

	user, err := svc.SyncProfile(context.Background(), "acct-1", ProfileInput{
		Name:  "Ada",
		Email: "ada@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "acct-1", user.AccountID)
	assert.Equal(t, fixedNow, user.JoinedAt)

	stored, err := users.GetByAccountID(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.Name)
}

func TestUserService_SyncProfileUpdatesAndKeepsJoinedAt(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	users := mocks.NewMockUserStore(&domain.User{
		AccountID: "acct-1",
		Name:      "Ada",
		Email:     "ada@example.com",
		JoinedAt:  joined,
	})
	svc := NewUserService(users, db, nil)

	user, err := svc.SyncProfile(context.Background(), "acct-1", ProfileInput{
		Name:     "Ada Lovelace",
		Email:    "ada@lovelace.dev",
		ImageURL: "https://img/ada.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, joined, user.JoinedAt)

	stored, err := users.GetByAccountID(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@lovelace.dev", stored.Email)
	assert.Equal(t, joined, stored.JoinedAt)
}

func TestUserService_SyncProfileRollsBackOnError(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	users := mocks.NewMockUserStore()
	users.CreateFn = func(context.Context, *domain.User) error { return store.ErrDuplicate }
	svc := NewUserService(users, db, nil)

	_, err := svc.SyncProfile(context.Background(), "acct-1", ProfileInput{Name: "Ada", Email: "ada@example.com"})

	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUserService_SyncProfileInvalidEmail(t *testing.T) {
	db, mock := newTxDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := NewUserService(mocks.NewMockUserStore(), db, nil)

	_, err := svc.SyncProfile(context.Background(), "acct-1", ProfileInput{Name: "Ada", Email: "nope"})

	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUserService_GetProfile(t *testing.T) {
	users := mocks.NewMockUserStore(&domain.User{AccountID: "acct-1", Name: "Ada", Email: "ada@example.com"})
	svc := NewUserService(users, nil, nil)

	user, err := svc.GetProfile(context.Background(), "acct-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	users.GetByAccountIDFn = func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("db down")
	}
	_, err = svc.GetProfile(context.Background(), "acct-1")
	assert.Error(t, err)
}

package mocks

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// MockUserStore implements store.UserStore with an in-memory map.
type MockUserStore struct {
	CreateFn             func(ctx context.Context, user *domain.User) error
	UpdateFn             func(ctx context.Context, user *domain.User) error
	GetByAccountIDFn     func(ctx context.Context, accountID string) (*domain.User, error)
	CountFn              func(ctx context.Context) (int, error)
	CountJoinedBetweenFn func(ctx context.Context, from, to time.Time) (int, error)

	mu    sync.Mutex
	users map[string]*domain.User
}

// NewMockUserStore creates a new mock store, optionally seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.AccountID] = u
	}
	return m
}

// Ensure MockUserStore implements store.UserStore interface
var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.Create
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.users == nil {
		m.users = make(map[string]*domain.User)
	}
	if _, exists := m.users[user.AccountID]; exists {
		return store.ErrDuplicate
	}
	c := *user
	m.users[user.AccountID] = &c
	return nil
}

// Update implements store.UserStore.Update
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.users[user.AccountID]
	if !ok {
		return store.ErrUserNotFound
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.ImageURL = user.ImageURL
	return nil
}

// GetByAccountID implements store.UserStore.GetByAccountID
func (m *MockUserStore) GetByAccountID(ctx context.Context, accountID string) (*domain.User, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[accountID]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

// Count implements store.UserStore.Count
func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

// CountJoinedBetween implements store.UserStore.CountJoinedBetween
func (m *MockUserStore) CountJoinedBetween(ctx context.Context, from, to time.Time) (int, error) {
	if m.CountJoinedBetweenFn != nil {
		return m.CountJoinedBetweenFn(ctx, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if !u.JoinedAt.Before(from) && u.JoinedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// WithTx implements store.UserStore.WithTx
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

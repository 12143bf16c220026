package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// MockTripStore implements store.TripStore with an in-memory map.
type MockTripStore struct {
	CreateFn              func(ctx context.Context, trip *domain.Trip) error
	AttachPaymentLinkFn   func(ctx context.Context, id uuid.UUID, url string) error
	GetByIDFn             func(ctx context.Context, id uuid.UUID) (*domain.Trip, error)
	ListFn                func(ctx context.Context, limit, offset int) ([]*domain.Trip, error)
	ListByUserFn          func(ctx context.Context, userID string, limit, offset int) ([]*domain.Trip, error)
	CountFn               func(ctx context.Context) (int, error)
	CountCreatedBetweenFn func(ctx context.Context, from, to time.Time) (int, error)

	mu    sync.Mutex
	trips map[uuid.UUID]*domain.Trip
	calls map[string]int
}

// NewMockTripStore creates a new mock store, optionally seeded with trips.
func NewMockTripStore(trips ...*domain.Trip) *MockTripStore {
	m := &MockTripStore{
		trips: make(map[uuid.UUID]*domain.Trip),
		calls: make(map[string]int),
	}
	for _, t := range trips {
		m.trips[t.ID] = t
	}
	return m
}

// Ensure MockTripStore implements store.TripStore interface
var _ store.TripStore = (*MockTripStore)(nil)

func (m *MockTripStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// CallCount returns how many times method was called.
func (m *MockTripStore) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Trip returns a copy of the stored trip with id, or nil.
func (m *MockTripStore) Trip(id uuid.UUID) *domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return nil
	}
	c := *t
	return &c
}

// Len returns the number of stored trips.
func (m *MockTripStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.trips)
}

// Create implements store.TripStore.Create
func (m *MockTripStore) Create(ctx context.Context, trip *domain.Trip) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, trip)
	}
	if err := trip.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.trips == nil {
		m.trips = make(map[uuid.UUID]*domain.Trip)
	}
	if _, exists := m.trips[trip.ID]; exists {
		return store.ErrDuplicate
	}
	c := *trip
	m.trips[trip.ID] = &c
	return nil
}

// AttachPaymentLink implements store.TripStore.AttachPaymentLink
func (m *MockTripStore) AttachPaymentLink(ctx context.Context, id uuid.UUID, url string) error {
	m.record("AttachPaymentLink")
	if m.AttachPaymentLinkFn != nil {
		return m.AttachPaymentLinkFn(ctx, id, url)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trips[id]
	if !ok {
		return store.ErrTripNotFound
	}
	t.PaymentLink = url
	return nil
}

// GetByID implements store.TripStore.GetByID
func (m *MockTripStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Trip, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	if t := m.Trip(id); t != nil {
		return t, nil
	}
	return nil, store.ErrTripNotFound
}

// List implements store.TripStore.List
func (m *MockTripStore) List(ctx context.Context, limit, offset int) ([]*domain.Trip, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return m.page(func(*domain.Trip) bool { return true }, limit, offset), nil
}

// ListByUser implements store.TripStore.ListByUser
func (m *MockTripStore) ListByUser(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]*domain.Trip, error) {
	m.record("ListByUser")
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, limit, offset)
	}
	return m.page(func(t *domain.Trip) bool { return t.UserID == userID }, limit, offset), nil
}

// Count implements store.TripStore.Count
func (m *MockTripStore) Count(ctx context.Context) (int, error) {
	m.record("Count")
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return m.Len(), nil
}

// CountCreatedBetween implements store.TripStore.CountCreatedBetween
func (m *MockTripStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	m.record("CountCreatedBetween")
	if m.CountCreatedBetweenFn != nil {
		return m.CountCreatedBetweenFn(ctx, from, to)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.trips {
		if !t.CreatedAt.Before(from) && t.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// WithTx implements store.TripStore.WithTx
func (m *MockTripStore) WithTx(tx *sql.Tx) store.TripStore {
	return m
}

// page returns matching trips newest first.
func (m *MockTripStore) page(match func(*domain.Trip) bool, limit, offset int) []*domain.Trip {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*domain.Trip, 0, len(m.trips))
	for _, t := range m.trips {
		if match(t) {
			c := *t
			all = append(all, &c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID.String() < all[j].ID.String()
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*domain.Trip{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

package mocks

import (
	"context"
	"sync"
)

// MockImageSearcher implements service.ImageSearcher for testing.
type MockImageSearcher struct {
	SearchFn func(ctx context.Context, query string, limit int) ([]string, error)

	// Default response values
	URLs []string
	Err  error

	mu      sync.Mutex
	queries []string
}

// Search implements service.ImageSearcher.
func (m *MockImageSearcher) Search(ctx context.Context, query string, limit int) ([]string, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(ctx, query, limit)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.URLs) > limit {
		return append([]string(nil), m.URLs[:limit]...), nil
	}
	return append([]string(nil), m.URLs...), nil
}

// Queries returns the search queries received, in order.
func (m *MockImageSearcher) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}

// SearchCallCount returns the number of Search calls.
func (m *MockImageSearcher) SearchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries)
}

package mocks

import (
	"context"
	"sync"

	"github.com/tourvisto/tourvisto-api/internal/domain"
)

// MockPaymentLinkCreator implements service.PaymentLinkCreator for testing.
type MockPaymentLinkCreator struct {
	CreateLinkFn func(ctx context.Context, req domain.PaymentLinkRequest) (*domain.PaymentLink, error)

	// URL is returned by the default implementation unless Err is set.
	URL string
	Err error

	mu       sync.Mutex
	requests []domain.PaymentLinkRequest
}

// CreateLink implements service.PaymentLinkCreator.
func (m *MockPaymentLinkCreator) CreateLink(
	ctx context.Context,
	req domain.PaymentLinkRequest,
) (*domain.PaymentLink, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.CreateLinkFn != nil {
		return m.CreateLinkFn(ctx, req)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	url := m.URL
	if url == "" {
		url = "https://buy.stripe.com/test_" + req.ReferenceID
	}
	return &domain.PaymentLink{ID: "plink_" + req.ReferenceID, URL: url}, nil
}

// Requests returns the link requests received, in order.
func (m *MockPaymentLinkCreator) Requests() []domain.PaymentLinkRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PaymentLinkRequest(nil), m.requests...)
}

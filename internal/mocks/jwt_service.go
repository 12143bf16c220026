package mocks

import (
	"context"
	"time"

	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing. By default every
// token validates to Claims; the token text is ignored.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, id auth.Identity) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token  string
	Claims *auth.Claims
	Err    error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// NewMockJWTServiceFor returns a mock that accepts any token as id.
func NewMockJWTServiceFor(id auth.Identity) *MockJWTService {
	now := time.Now().UTC()
	return &MockJWTService{
		Token: "test-token",
		Claims: &auth.Claims{
			Identity:  id,
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
			ID:        "test-jti",
		},
	}
}

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, id auth.Identity) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, id)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Claims == nil {
		return nil, auth.ErrInvalidToken
	}
	return m.Claims, nil
}

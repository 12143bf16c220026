package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourvisto/tourvisto-api/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	impl := svc.(*hmacJWTService)
	impl.timeFunc = func() time.Time { return now }
	return impl
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)
	ctx := context.Background()

	token, err := svc.GenerateToken(ctx, Identity{
		AccountID: "acct-1",
		Email:     "ada@example.com",
		Name:      "Ada",
		Role:      RoleAdmin,
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.AccountID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt)
	assert.NotEmpty(t, claims.ID)
}

func TestGenerateTokenRequiresSubject(t *testing.T) {
	svc := newTestService(t, time.Now())
	_, err := svc.GenerateToken(context.Background(), Identity{Email: "x@example.com"})
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestValidateTokenErrors(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, now)
	token, err := issuer.GenerateToken(context.Background(), Identity{AccountID: "acct-1"})
	require.NoError(t, err)

	t.Run("expired beyond clock skew", func(t *testing.T) {
		later := newTestService(t, now.Add(time.Hour+3*time.Minute))
		_, err := later.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expired within clock skew", func(t *testing.T) {
		later := newTestService(t, now.Add(time.Hour+time.Minute))
		_, err := later.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})

	t.Run("not yet valid", func(t *testing.T) {
		claims := jwtCustomClaims{RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acct-1",
			NotBefore: jwt.NewNumericDate(now.Add(time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		}}
		early, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.ValidateToken(context.Background(), early)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "another-secret-that-is-32-chars-long!",
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)
		_, err = other.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := issuer.ValidateToken(context.Background(), "not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwtCustomClaims{RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}}
		anonymous, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.ValidateToken(context.Background(), anonymous)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("unexpected algorithm", func(t *testing.T) {
		claims := jwtCustomClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "acct-1"}}
		hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		_, err = issuer.ValidateToken(context.Background(), hs512)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestClaimsIsAdmin(t *testing.T) {
	tests := []struct {
		name       string
		claims     *Claims
		adminEmail string
		want       bool
	}{
		{"admin role", &Claims{Identity: Identity{Role: RoleAdmin}}, "", true},
		{"matching email", &Claims{Identity: Identity{Email: "Boss@Example.com"}}, "boss@example.com", true},
		{"other email", &Claims{Identity: Identity{Email: "ada@example.com"}}, "boss@example.com", false},
		{"no admin email configured", &Claims{Identity: Identity{Email: ""}}, "", false},
		{"nil claims", nil, "boss@example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.IsAdmin(tt.adminEmail))
		})
	}
}

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/platform/logger"
	"github.com/tourvisto/tourvisto-api/internal/redact"
	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

// AuthMiddleware validates bearer tokens issued by the identity provider.
type AuthMiddleware struct {
	jwtService auth.JWTService
	adminEmail string
}

// NewAuthMiddleware creates a new AuthMiddleware. adminEmail, when set,
// grants admin access to the account with that email.
func NewAuthMiddleware(jwtService auth.JWTService, adminEmail string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		adminEmail: adminEmail,
	}
}

// Authenticate rejects requests without a valid bearer token and stores
// the token claims in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			if r.Header.Get("Authorization") == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			} else {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			}
			return
		}

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			m.respondTokenError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.WithClaims(r.Context(), claims)))
	})
}

// OptionalAuthenticate attaches claims when a valid bearer token is present
// and lets anonymous requests through. A present but invalid token is
// still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		m.Authenticate(next).ServeHTTP(w, r)
	})
}

// RequireAdmin lets through only callers whose claims carry the admin role
// or the configured admin email. It must run after Authenticate.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := shared.ClaimsFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}
		if !claims.IsAdmin(m.adminEmail) {
			logger.FromContextOrDefault(r.Context(), nil).Warn("non-admin access to admin route",
				slog.String("account_id", claims.AccountID),
				slog.String("path", r.URL.Path))
			shared.RespondWithError(w, r, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *AuthMiddleware) respondTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrMissingSubject):
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
	default:
		logger.FromContextOrDefault(r.Context(), nil).Error("failed to validate token",
			slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
	}
}

func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

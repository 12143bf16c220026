// Package auth validates the bearer tokens issued for signed-in travellers.
// Accounts live with the upstream identity provider; this package only
// checks signatures and reads the identity claims.
package auth

import (
	"context"
	"strings"
	"time"
)

// RoleAdmin grants access to the admin dashboard.
const RoleAdmin = "admin"

// Identity is who a token speaks for.
type Identity struct {
	// AccountID is the identity provider's subject for the user.
	AccountID string
	Email     string
	Name      string
	Role      string
}

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed token for id. Used by development tooling.
	GenerateToken(ctx context.Context, id Identity) (string, error)

	// ValidateToken validates the token string and extracts the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	Identity
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// IsAdmin reports whether the claims carry the admin role or belong to
// adminEmail. An empty adminEmail matches nobody.
func (c *Claims) IsAdmin(adminEmail string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleAdmin {
		return true
	}
	return adminEmail != "" && strings.EqualFold(c.Email, adminEmail)
}

// Command devtoken mints a bearer token signed with the configured secret,
// for calling authenticated endpoints during local development.
//
// Usage:
//
//	devtoken -sub acct-123 -email ada@example.com [-name Ada] [-role admin]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tourvisto/tourvisto-api/internal/config"
	"github.com/tourvisto/tourvisto-api/internal/service/auth"
)

func main() {
	sub := flag.String("sub", "", "account ID placed in the token subject (required)")
	email := flag.String("email", "", "email claim")
	name := flag.String("name", "", "display name claim")
	role := flag.String("role", "", `role claim, e.g. "admin"`)
	secret := flag.String("secret", "", "signing secret (defaults to TOURVISTO_AUTH_JWT_SECRET)")
	lifetime := flag.Int("lifetime", 60, "token lifetime in minutes")
	flag.Parse()

	if err := run(*sub, *email, *name, *role, *secret, *lifetime); err != nil {
		fmt.Fprintln(os.Stderr, "devtoken:", err)
		os.Exit(1)
	}
}

func run(sub, email, name, role, secret string, lifetime int) error {
	if sub == "" {
		return fmt.Errorf("-sub is required")
	}
	if secret == "" {
		secret = os.Getenv("TOURVISTO_AUTH_JWT_SECRET")
	}

	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: lifetime,
	})
	if err != nil {
		return err
	}

	token, err := svc.GenerateToken(context.Background(), auth.Identity{
		AccountID: sub,
		Email:     email,
		Name:      name,
		Role:      role,
	})
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

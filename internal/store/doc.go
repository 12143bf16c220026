// Package store defines interfaces for trip and user persistence, the
// errors they return, and a transaction helper. Implementations live in
// internal/platform/postgres.
package store

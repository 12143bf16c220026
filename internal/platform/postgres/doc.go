// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It also owns the
// schema, embedded as goose migrations.
package postgres

// Package logger provides structured JSON logging built on log/slog,
// plus helpers that carry a request-scoped logger through a context.
package logger

package service

import (
	"errors"
	"fmt"
)

// Common service errors.
var (
	// ErrNotOwned indicates a request acts on behalf of a different user than
	// the authenticated one. API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrInvalidPage is returned for catalogue pages outside [1, MaxCataloguePage].
	ErrInvalidPage = errors.New("invalid page number")
)

// ErrorKind classifies a trip generation failure.
type ErrorKind string

// Trip generation failure kinds
const (
	KindValidation            ErrorKind = "validation"
	KindUnauthenticated       ErrorKind = "unauthenticated"
	KindGenerationUnavailable ErrorKind = "generation_unavailable"
	KindMalformedResponse     ErrorKind = "malformed_response"
	KindPersistence           ErrorKind = "persistence"
	KindInternal              ErrorKind = "internal"
)

// PipelineError is returned by TripPipeline.Generate for every fatal failure.
type PipelineError struct {
	Kind ErrorKind
	// Field names the offending request field for validation failures.
	Field string
	Err   error
}

// Error implements the error interface for PipelineError.
func (e *PipelineError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("trip generation %s (%s): %v", e.Kind, e.Field, e.Err)
	}
	return fmt.Sprintf("trip generation %s: %v", e.Kind, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a pipeline failure, or KindInternal for any
// other non-nil error.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

package generation

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors returned by the generation package
var (
	// ErrAllModelsFailed is returned when every model in the fallback list failed.
	ErrAllModelsFailed = errors.New("all AI models failed")

	// ErrMalformedResponse is returned when the model reply holds no usable plan.
	ErrMalformedResponse = errors.New("failed to parse AI response into valid trip data")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrEmptyResponse is returned when a model answers without any text.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrProviderAuth is returned when the provider rejects the configured credentials.
	ErrProviderAuth = errors.New("language model API key rejected")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// Attempt records one model invocation of a fallback run.
type Attempt struct {
	Model    string
	Err      error
	Duration time.Duration
}

// AllModelsFailedError reports a fallback run in which no model succeeded.
// It matches ErrAllModelsFailed and the last underlying error.
type AllModelsFailedError struct {
	Attempts []Attempt
}

// Last returns the error of the final attempt.
func (e *AllModelsFailedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

// Error implements the error interface.
func (e *AllModelsFailedError) Error() string {
	last := "unknown error"
	if err := e.Last(); err != nil {
		last = err.Error()
	}
	models := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		models[i] = a.Model
	}
	return fmt.Sprintf("%s (%s). Last error: %s", ErrAllModelsFailed, strings.Join(models, ", "), last)
}

// Unwrap exposes both the sentinel and the last attempt error.
func (e *AllModelsFailedError) Unwrap() []error {
	if last := e.Last(); last != nil {
		return []error{ErrAllModelsFailed, last}
	}
	return []error{ErrAllModelsFailed}
}

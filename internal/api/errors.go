package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tourvisto/tourvisto-api/internal/api/shared"
	"github.com/tourvisto/tourvisto-api/internal/domain"
	"github.com/tourvisto/tourvisto-api/internal/service"
	"github.com/tourvisto/tourvisto-api/internal/store"
)

// Client-facing messages for trip generation failures.
const (
	MsgUserIDRequired        = "User ID is required"
	MsgGenerationUnavailable = "AI service temporarily unavailable. Please try again in a few moments."
	MsgMalformedResponse     = "Failed to process AI response. Please try again."
	MsgPersistenceFailed     = "Failed to save trip. Please try again."
	MsgGenerationFailed      = "Failed to generate trip. Please try again."
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var pe *service.PipelineError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case service.KindValidation:
			return http.StatusBadRequest
		case service.KindUnauthenticated:
			return http.StatusUnauthorized
		default:
			return http.StatusInternalServerError
		}
	}

	switch {
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, shared.ErrEmptyBody):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err. Validation
// messages are passed through because they are written for end users.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var pe *service.PipelineError
	if errors.As(err, &pe) {
		return pipelineMessage(pe)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}

	switch {
	case errors.Is(err, service.ErrNotOwned):
		return "You can only create trips for your own account"
	case errors.Is(err, service.ErrInvalidPage):
		return "Invalid page number"
	case errors.Is(err, store.ErrTripNotFound):
		return "Trip not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	default:
		return "An unexpected error occurred"
	}
}

func pipelineMessage(pe *service.PipelineError) string {
	switch pe.Kind {
	case service.KindValidation:
		var ve *domain.ValidationError
		if errors.As(pe.Err, &ve) && ve.Message != "" {
			return ve.Message
		}
		return "Invalid trip request"
	case service.KindUnauthenticated:
		return MsgUserIDRequired
	case service.KindGenerationUnavailable:
		return MsgGenerationUnavailable
	case service.KindMalformedResponse:
		return MsgMalformedResponse
	case service.KindPersistence:
		return MsgPersistenceFailed
	default:
		return MsgGenerationFailed
	}
}

// SanitizeValidationError turns validator errors into a short message
// naming the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Validation error"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	if msg := validationTagMessage(fe.Tag()); msg != "" {
		return fmt.Sprintf("Invalid %s: %s", field, msg)
	}
	return fmt.Sprintf("Invalid %s", field)
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return ""
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

package api

import (
	"errors"
	"net/http"

	"github.com/good-yellow-bee/collabhub/internal/coordinator"
	"github.com/good-yellow-bee/collabhub/internal/logging"
	"github.com/good-yellow-bee/collabhub/internal/store"
)

// Error represents an API error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

// Common error codes
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Standard errors
var (
	ErrNotFound = &Error{
		Code:    ErrCodeNotFound,
		Message: "Resource not found",
		Status:  http.StatusNotFound,
	}

	ErrInternalServer = &Error{
		Code:    ErrCodeInternalError,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}

	ErrRateLimited = &Error{
		Code:    ErrCodeRateLimited,
		Message: "Too many requests",
		Status:  http.StatusTooManyRequests,
	}

	ErrNothingSelected = &Error{
		Code:    ErrCodeConflict,
		Message: "Nothing selected",
		Status:  http.StatusConflict,
	}

	ErrWorkspaceClosed = &Error{
		Code:    ErrCodeServiceUnavailable,
		Message: "Workspace is shutting down",
		Status:  http.StatusServiceUnavailable,
	}
)

// NewBadRequest creates a bad request error with custom message.
func NewBadRequest(message string) *Error {
	return &Error{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewValidationError creates a validation error for one input field.
func NewValidationError(field, message string) *Error {
	return &Error{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Field:   field,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error with custom message.
func NewNotFound(message string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: message,
		Status:  http.StatusNotFound,
	}
}

// FromError maps a workspace error to its API representation.
func FromError(err error) *Error {
	var apiErr *Error
	var ve *store.ValidationError
	var nf *store.NotFoundError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &ve):
		return NewValidationError(ve.Field, ve.Error())
	case errors.As(err, &nf):
		return NewNotFound(nf.Error())
	case errors.Is(err, coordinator.ErrNoSelection):
		return ErrNothingSelected
	case errors.Is(err, coordinator.ErrClosed):
		return ErrWorkspaceClosed
	default:
		return ErrInternalServer
	}
}

// WriteError writes err as a JSON error response. Unexpected errors are
// logged and reported as internal errors.
func WriteError(w http.ResponseWriter, err error) {
	apiErr := FromError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logging.Component("api").WithError(err).Error("request failed")
	}
	JSONError(w, apiErr)
}

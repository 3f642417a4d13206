package errors

import (
	"errors"
	"fmt"
)

// Domain errors - raised by loaders and services, never by the engine itself
var (
	// Dataset loading
	ErrNotArray          = errors.New("dataset is not a JSON array")
	ErrNotObject         = errors.New("record is not a JSON object")
	ErrInvalidJSON       = errors.New("dataset is not valid JSON")
	ErrSourceUnavailable = errors.New("record source unavailable")

	// Dashboards
	ErrVariantNotFound    = errors.New("dashboard variant not found")
	ErrSnapshotNotLoaded  = errors.New("dashboard data has not been loaded")
	ErrInvalidDateKey     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidDateRange   = errors.New("date range start is after its end")
	ErrUnknownFilterField = errors.New("unknown filter field")

	// Assistant
	ErrQuestionRequired = errors.New("question is required")
	ErrModelUnavailable = errors.New("language model is not configured")

	// Authentication
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("action forbidden")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewServiceUnavailableError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "SERVICE_UNAVAILABLE",
		StatusCode: 503,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}

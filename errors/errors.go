package errors

import (
	"fmt"
	"net/http"
)

// AppError is the error type handlers and the pipeline return. Code is for
// machines, Message is safe to show a caller, Details and Cause are for logs.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause records the underlying error and returns e.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail adds one detail and returns e.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = map[string]any{}
	}
	e.Details[key] = value
	return e
}

// New builds an AppError; Retryable follows the code.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Retryable: IsRetryableCode(code)}
}

func withDetails(e *AppError, details map[string]any) *AppError {
	e.Details = details
	return e
}

// ServiceUnavailable reports a saturated or stopped dependency.
func ServiceUnavailable(service string) *AppError {
	return withDetails(
		New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is busy. Please try again shortly.", service), http.StatusServiceUnavailable),
		map[string]any{"service": service},
	)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "Too many voice messages at once. Please wait a moment.", http.StatusTooManyRequests)
}

// NotFound reports a missing resource. An empty id is left out.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return withDetails(New(ErrCodeNotFound, fmt.Sprintf("The %s does not exist or has expired.", resource), http.StatusNotFound), details)
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, "Invalid input: "+reason, http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

// Validation carries a pre-formatted list of field problems.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

func MissingField(field string) *AppError {
	return withDetails(New(ErrCodeMissingField, "Missing required field: "+field, http.StatusBadRequest), map[string]any{"field": field})
}

// Unauthorized defaults to a generic message when reason is empty.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "The API token has expired.", http.StatusUnauthorized)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "The API token is not valid.", http.StatusUnauthorized)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "Something went wrong on our side.", http.StatusInternalServerError).WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "The database is not responding. Please try again.", http.StatusInternalServerError).WithCause(cause)
}

// Package domain provides shared domain-level error types and sentinels.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for errors.Is checks across layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a domain conflict (budget exceeded, date
	// collision, finalized-session write, stale version).
	ErrConflict = errors.New("conflict")

	// ErrValidation indicates malformed or missing input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller does not own the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates an upstream collaborator is unreachable.
	ErrUnavailable = errors.New("upstream unavailable")
)

// Error is a typed domain error carrying an HTTP status, a stable
// machine-readable code, and optional structured details. The HTTP boundary
// renders it as {"error":{"code","message","details?"}}.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any

	sentinel error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap lets errors.Is match the underlying sentinel.
func (e *Error) Unwrap() error { return e.sentinel }

// WithDetail attaches a structured detail and returns the error for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Validationf builds a 400 validation error.
func Validationf(format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusBadRequest,
		Code:     "invalid_request",
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrValidation,
	}
}

// NotFoundf builds a 404 not-found error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusNotFound,
		Code:     "not_found",
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrNotFound,
	}
}

// Conflictf builds a 409 conflict error with the given code
// (budget_exceeded, date_conflict, session_finalized, version_conflict).
func Conflictf(code, format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusConflict,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrConflict,
	}
}

// Unauthorizedf builds a 401 error.
func Unauthorizedf(format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusUnauthorized,
		Code:     "unauthorized",
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrUnauthorized,
	}
}

// Forbiddenf builds a 403 error.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusForbidden,
		Code:     "forbidden",
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrForbidden,
	}
}

// Unavailablef builds a 503 upstream-unavailable error.
func Unavailablef(format string, args ...any) *Error {
	return &Error{
		Status:   http.StatusServiceUnavailable,
		Code:     "upstream_unavailable",
		Message:  fmt.Sprintf(format, args...),
		sentinel: ErrUnavailable,
	}
}

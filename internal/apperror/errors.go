// Package apperror defines the error kinds surfaced by the data layer.
// Callers check them with errors.Is against the sentinels below.
package apperror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error.
type Code string

const (
	CodeNotFound       Code = "NOT_FOUND"
	CodeConflict       Code = "CONFLICT"
	CodeInvalidInput   Code = "INVALID_INPUT"
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeForbidden      Code = "FORBIDDEN"
	CodeInfrastructure Code = "INFRASTRUCTURE"
)

// Error is a domain error carrying a code, a caller-safe message and an
// optional underlying cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so a wrapped error still
// satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrNotFound       = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrConflict       = &Error{Code: CodeConflict, Message: "resource already exists"}
	ErrInvalidInput   = &Error{Code: CodeInvalidInput, Message: "invalid input"}
	ErrUnauthorized   = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden      = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrInfrastructure = &Error{Code: CodeInfrastructure, Message: "storage unavailable"}
)

// New returns a copy of sentinel with a custom message.
func New(sentinel *Error, message string) *Error {
	return &Error{Code: sentinel.Code, Message: message}
}

// Newf is New with formatting.
func Newf(sentinel *Error, format string, args ...any) *Error {
	return New(sentinel, fmt.Sprintf(format, args...))
}

// Wrap attaches err as the cause of a copy of sentinel.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Infra wraps a storage or transport failure. Errors that are already
// domain errors pass through unchanged.
func Infra(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Code: CodeInfrastructure, Message: op, Err: err}
}

// Retryable reports whether the caller may retry the operation.
func Retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(err, ErrInfrastructure)
}

// HTTPStatus maps err to a response status code.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SafeMessage returns a message that may be shown to clients.
func SafeMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Code != CodeInfrastructure {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

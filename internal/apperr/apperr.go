// Package apperr defines the error codes returned by the membership core.
// Every expected failure is one of these codes; anything else is a server error.
package apperr

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeExpired          Code = "EXPIRED"
	CodeValidation       Code = "VALIDATION"
	CodeAlreadySubmitted Code = "ALREADY_SUBMITTED"
	CodeNotEligible      Code = "NOT_ELIGIBLE"
	CodeConflict         Code = "CONFLICT"
	CodeForbidden        Code = "FORBIDDEN"
)

// Error carries a code, a message for the caller, and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so callers can use errors.Is with sentinel values.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = New(CodeNotFound, "not found")
	ErrExpired          = New(CodeExpired, "expired")
	ErrValidation       = New(CodeValidation, "validation failed")
	ErrAlreadySubmitted = New(CodeAlreadySubmitted, "already submitted")
	ErrNotEligible      = New(CodeNotEligible, "not eligible")
	ErrConflict         = New(CodeConflict, "conflict")
	ErrForbidden        = New(CodeForbidden, "forbidden")
)

// HTTPStatus maps a code to the status the API surface returns for it.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeExpired:
		return http.StatusGone
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAlreadySubmitted, CodeConflict:
		return http.StatusConflict
	case CodeNotEligible:
		return http.StatusUnprocessableEntity
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

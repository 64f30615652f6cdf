package apperror

import (
	"errors"
	"net/http"
)

// Error is the application error taxonomy. Every failure a handler can
// surface maps to one of the constructors below; anything else is
// reported as a generic 500 by the HTTP layer.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Message string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func Unauthorized(msg string) *Error {
	if msg == "" {
		msg = "Unauthorized"
	}
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: msg}
}

func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "Forbidden"
	}
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: msg}
}

func NotFound(msg string) *Error {
	if msg == "" {
		msg = "Not found"
	}
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: msg}
}

func Conflict(msg string) *Error {
	if msg == "" {
		msg = "Resource conflict"
	}
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: msg}
}

func Validation(msg string, details any) *Error {
	if msg == "" {
		msg = "Validation failed"
	}
	return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_ERROR", Message: msg, Details: details}
}

// TooManyRequests carries a human-readable retry hint in the message.
func TooManyRequests(msg string) *Error {
	if msg == "" {
		msg = "Too many requests. Please try again later."
	}
	return &Error{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS", Message: msg}
}

func Internal() *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "Internal server error"}
}

func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "BAD_REQUEST", Message: msg}
}

// From extracts an *Error from err, or nil if err is not one.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsStatus reports whether err is an application error with the given
// HTTP status.
func IsStatus(err error, status int) bool {
	appErr := From(err)
	return appErr != nil && appErr.Status == status
}

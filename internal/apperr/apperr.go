// Package apperr defines the error taxonomy shared by every handler and
// game state machine: a small closed set of kinds, each with one HTTP
// status mapping, so callers never invent their own status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is one of the five error categories the core raises.
type Kind string

const (
	NotFound        Kind = "notFound"
	Conflict        Kind = "conflict"
	Unauthorized    Kind = "unauthorized"
	InvalidState    Kind = "invalidState"
	InvalidArgument Kind = "invalidArgument"
)

// Error wraps a Kind with a human-readable message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, fmt.Sprintf(format, args...))
}

func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, fmt.Sprintf(format, args...))
}

func InvalidStatef(format string, args ...any) *Error {
	return New(InvalidState, fmt.Sprintf(format, args...))
}

func InvalidArgumentf(format string, args ...any) *Error {
	return New(InvalidArgument, fmt.Sprintf(format, args...))
}

// KindOf extracts the Kind from err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusFor maps a Kind to the HTTP status the external API surface uses.
// Unauthorized and InvalidArgument both collapse to 400 since both mean
// the caller sent something unusable; unrecognized kinds map to 500.
func StatusFor(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case InvalidState:
		return http.StatusConflict
	case InvalidArgument, Unauthorized:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

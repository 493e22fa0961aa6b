// Package apperr defines the error taxonomy shared by all domain services.
//
// Services never return raw persistence errors to controllers. Domain
// failures are tagged with a Kind so the HTTP layer can map them to a
// status code without string matching:
//
//	NotFound    → 404
//	Invalid     → 400
//	Conflict    → 409
//	Unavailable → 502
//
// Anything else that escapes a service is treated as an internal fault.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure.
type Kind int

const (
	// NotFound: the requested entity does not exist.
	NotFound Kind = iota + 1
	// Invalid: the operation is not allowed in the current state
	// (empty cart confirm, busy umbrella, exhausted stock).
	Invalid
	// Conflict: a uniqueness or duplication rule was violated.
	Conflict
	// Unavailable: an upstream collaborator (weather API, cache) failed.
	Unavailable
)

// Error is a tagged domain error.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying cause.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// NotFoundf is shorthand for New(NotFound, ...).
func NotFoundf(format string, args ...interface{}) *Error {
	return New(NotFound, format, args...)
}

// Invalidf is shorthand for New(Invalid, ...).
func Invalidf(format string, args ...interface{}) *Error {
	return New(Invalid, format, args...)
}

// Conflictf is shorthand for New(Conflict, ...).
func Conflictf(format string, args ...interface{}) *Error {
	return New(Conflict, format, args...)
}

// KindOf extracts the Kind from err, or 0 when err carries no tag.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is tagged NotFound.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsInvalid reports whether err is tagged Invalid.
func IsInvalid(err error) bool { return KindOf(err) == Invalid }

// IsConflict reports whether err is tagged Conflict.
func IsConflict(err error) bool { return KindOf(err) == Conflict }

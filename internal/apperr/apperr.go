package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	// Unauthorized means no identity was presented.
	Unauthorized Kind = iota
	// Forbidden means an identity was presented but lacks ownership.
	Forbidden
	// NotFound means a referenced entity identifier did not resolve.
	NotFound
	// InvalidInput means a required field is missing or malformed.
	InvalidInput
	// Conflict means a uniqueness invariant was violated.
	Conflict
	// Internal is an unexpected store or infrastructure failure.
	Internal
)

func (k Kind) String() string {
	switch k {
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a kinded domain error. Msg is safe to return to clients; the
// wrapped cause (if any) is for logs only.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a kinded error with a client-safe message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a kinded error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap marks an unexpected failure as Internal, preserving the cause.
func Wrap(msg string, err error) *Error {
	return &Error{Kind: Internal, Msg: msg, Err: err}
}

// KindOf extracts the kind; unclassified errors are Internal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

package authsdk

import (
	"errors"
	"fmt"
)

// ============================================================================
// Client-side Error Codes
// ============================================================================

const (
	// CodeTimeout is returned when no response arrived within the configured timeout.
	CodeTimeout = "timeout"

	// CodeNetworkDown is returned when the transport could not reach the endpoint at all.
	CodeNetworkDown = "network_down"

	// CodeProtocol is returned when a response arrived but was not a valid envelope.
	CodeProtocol = "protocol"

	// CodeCanceled is returned when the caller's context was cancelled before an outcome.
	CodeCanceled = "canceled"
)

// ============================================================================
// Error - Envelope error type
// ============================================================================

// Error is the failure outcome of a request. Errors classified by the client
// carry one of the Code* constants; errors declared by the server are passed
// through verbatim and their codes are opaque to this package.
type Error struct {
	// Code is a short machine-readable error code (e.g. "timeout", "someCode")
	Code string `json:"code"`

	// Description is a human-readable description of the error
	Description string `json:"description"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is reports whether target is an *Error with the same code, so the
// predefined errors below can be matched with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// ============================================================================
// Predefined Errors
// ============================================================================

var (
	// ErrTimeout is returned when the request did not complete in time.
	ErrTimeout = &Error{
		Code:        CodeTimeout,
		Description: "request timed out",
	}

	// ErrNetworkDown is returned on DNS, connection or other transport failures.
	ErrNetworkDown = &Error{
		Code:        CodeNetworkDown,
		Description: "network is down",
	}

	// ErrProtocol is returned when the response body is not a JSON envelope.
	ErrProtocol = &Error{
		Code:        CodeProtocol,
		Description: "unexpected response format",
	}

	// ErrCanceled is returned when the caller cancelled the request context.
	ErrCanceled = &Error{
		Code:        CodeCanceled,
		Description: "request canceled",
	}
)

// NewError creates an Error with the given code and description.
func NewError(code, description string) *Error {
	return &Error{
		Code:        code,
		Description: description,
	}
}

// ============================================================================
// Error Inspection Helpers
// ============================================================================

// ErrorCode returns the code of the first *Error in err's chain, or "" if
// there is none.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries an *Error with the given code.
func IsCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}

// clone returns a fresh copy so callers can never mutate the predefined errors.
func (e *Error) clone() *Error {
	c := *e
	return &c
}

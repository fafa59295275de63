// Package service holds the marketplace business rules. Every call takes
// the caller's Identity explicitly and never looks at HTTP or session state.
package service

import "errors"

var (
	ErrUnauthenticated    = errors.New("login required")
	ErrForbidden          = errors.New("permission denied")
	ErrNotFound           = errors.New("not found")
	ErrInvalidDomain      = errors.New("only university email addresses can register")
	ErrDuplicateEmail     = errors.New("this email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrPostNotFound = &kindError{msg: "post not found", kind: ErrNotFound}
	ErrUserNotFound = &kindError{msg: "user not found", kind: ErrNotFound}
)

// kindError is a more specific message for one of the sentinel kinds
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// ValidationError reports bad, missing or oversized input. Message is safe
// to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(err error) error {
	return &ValidationError{Message: err.Error()}
}

// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
	ErrEmailDomain  = errors.New("only university email addresses can register")
)

// EmailValidator checks that e is a well formed address ending with suffix.
// The suffix comparison is case-sensitive, same as the stored address.
func EmailValidator(e, suffix string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if !strings.HasSuffix(e, suffix) {
		return ErrEmailDomain
	}

	if _, err := mail.ParseAddress(e); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

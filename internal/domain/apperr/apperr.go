// Package apperr holds the error taxonomy shared by stores, services and handlers.
package apperr

import (
	"errors"
	"strings"
)

// Classified failures. Handlers map these to a redirect plus flash notice.
var (
	ErrConflict           = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("not authorized")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyJoined      = errors.New("already joined")
	ErrSessionInPast      = errors.New("cannot join a past session")
)

// ValidationError carries one user-facing message per violated rule.
type ValidationError struct {
	Messages []string
}

// Error joins the messages.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Validation builds a ValidationError, or returns nil when no messages are given.
func Validation(messages ...string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

// ValidationMessages extracts the messages when err is a ValidationError.
func ValidationMessages(err error) ([]string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Messages, true
	}
	return nil, false
}

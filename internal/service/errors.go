package service

import "errors"

// ErrSessionNotFound is returned whenever an action names a session the
// store does not hold.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError marks a refused action: inputs are preserved, nothing is
// persisted and no session state changes.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(msg string) error {
	return &ValidationError{Msg: msg}
}

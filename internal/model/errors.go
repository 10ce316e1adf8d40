package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("not found")
	ErrUnauthenticated       = errors.New("not authenticated")
	ErrForbidden             = errors.New("parent role required")
	ErrInvalidState          = errors.New("invalid state for operation")
	ErrValidation            = errors.New("validation failed")
	ErrNoAllowanceConfigured = errors.New("no weekly allowance configured for this kid")

	// ErrJobAlreadyClaimed also matches ErrInvalidState.
	ErrJobAlreadyClaimed = fmt.Errorf("%w: job already claimed", ErrInvalidState)
)

// ValidationError describes malformed input for a single field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// StateError reports a transition attempted from a state that forbids it.
type StateError struct {
	Entity string
	Action string
	From   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s in state %q", e.Action, e.Entity, e.From)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

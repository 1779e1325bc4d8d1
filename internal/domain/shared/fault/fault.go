package fault

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes every component reports. Callers
// match with errors.Is; the HTTP layer maps each class to a status code.
var (
	ErrValidation             = errors.New("validation failed")
	ErrUnavailable            = errors.New("no capacity for the requested range")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotFound               = errors.New("not found")
	ErrConcurrencyConflict    = errors.New("concurrent update lost the race")
)

// ValidationError carries the violated constraint and the offending value so
// the caller can render a specific message instead of a generic 400.
type ValidationError struct {
	Constraint string
	Value      any
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation failed: %s", e.Constraint)
	}
	return fmt.Sprintf("validation failed: %s (got %v)", e.Constraint, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid builds a ValidationError for the named constraint.
func Invalid(constraint string, value any) error {
	return &ValidationError{Constraint: constraint, Value: value}
}

package earnings

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("earnings validation failed")
	ErrInvariant  = errors.New("earnings computation invariant violated")
)

// ValidationError reports input the caller must fix and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// InvariantError reports a computed breakdown that breaks the engine's own
// rules. It always indicates a bug upstream or in the rate table.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "earnings invariant: " + e.Detail
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

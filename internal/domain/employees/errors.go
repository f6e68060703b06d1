package employees

import (
	"errors"
	"fmt"
)

var (
	ErrValidation     = errors.New("invalid employee")
	ErrNotFound       = errors.New("employee not found")
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrForbidden      = errors.New("not authorized for this profile")
)

// ValidationError names the employee field that was rejected.
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

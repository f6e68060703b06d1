package sellers

import (
	"errors"
	"fmt"
)

var (
	ErrValidation      = errors.New("invalid seller label")
	ErrNotFound        = errors.New("seller label not found")
	ErrDuplicateSeller = errors.New("seller id already exists")
)

// ValidationError names the seller label field that was rejected.
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

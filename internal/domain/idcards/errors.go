package idcards

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid id card")
	ErrNotFound   = errors.New("id card not found")
)

// ValidationError names the field that prevents a card from being issued.
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

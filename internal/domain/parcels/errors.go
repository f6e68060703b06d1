package parcels

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("invalid lost parcel")
	ErrNotFound          = errors.New("lost parcel not found")
	ErrDuplicateTracking = errors.New("tracking number already registered as lost")
)

// ValidationError names the lost parcel field that was rejected.
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

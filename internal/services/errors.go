package services

import (
	"errors"
	"fmt"
)

// The error taxonomy of the booking core. Handlers map these onto HTTP
// status codes; everything that is none of them is a store failure.
var (
	// ErrNotFound means a referenced cottage, package, booking or safari
	// booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDatesUnavailable means at least one day of the requested range is
	// already reserved. No booking is created when this is returned.
	ErrDatesUnavailable = errors.New("selected dates are not available")
)

// ValidationError reports malformed or out-of-bounds input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for a named input field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

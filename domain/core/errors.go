package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrUnknownSpecies = fmt.Errorf("%w: species", ErrNotFound)
	ErrUnknownFeature = fmt.Errorf("%w: feature", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)

	// Validation errors
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrEmptyTable       = errors.New("observation table is empty")
)

// NewInvalidParameterError reports a rejected estimator or request parameter
func NewInvalidParameterError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidParameter, field, reason)
}

// NewNotFoundError wraps one of the not-found sentinels with the offending value
func NewNotFoundError(kind error, value string) error {
	return fmt.Errorf("%w %q", kind, value)
}

// IsInvalidParameter reports whether err stems from a rejected parameter
func IsInvalidParameter(err error) bool {
	return errors.Is(err, ErrInvalidParameter)
}

// IsNotFoundError reports whether err is any of the not-found sentinels
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

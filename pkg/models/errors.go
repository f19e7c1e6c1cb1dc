package models

import (
	"errors"
	"fmt"
)

// ErrAlarmNotFound is returned when an operation references an unknown alarm ID.
var ErrAlarmNotFound = errors.New("alarm not found")

// ValidationError reports rejected alarm input, such as a malformed time.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError from a format string.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

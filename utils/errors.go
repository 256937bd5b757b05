package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// InvalidPathError is returned when a waypoint sequence cannot describe a drivable path.
type InvalidPathError struct {
	Reason string
}

func (e *InvalidPathError) Error() string {
	return "invalid path: " + e.Reason
}

// NewInvalidPathError is used when waypoints are missing, coincide, or produce a degenerate curve.
func NewInvalidPathError(format string, args ...interface{}) error {
	return &InvalidPathError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidTimingError is returned when a duration, time step or physical dimension is unusable.
type InvalidTimingError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidTimingError) Error() string {
	return fmt.Sprintf("invalid timing: %s=%v %s", e.Field, e.Value, e.Reason)
}

// NewInvalidTimingError is used when a named parameter is out of its allowed range.
func NewInvalidTimingError(field string, value float64, reason string) error {
	return &InvalidTimingError{Field: field, Value: value, Reason: reason}
}

// NewNonPositiveError is used when a parameter that must be strictly positive and finite is not.
func NewNonPositiveError(field string, value float64) error {
	return NewInvalidTimingError(field, value, "must be positive and finite")
}

// IsInvalidPath reports whether any error in err's chain is an InvalidPathError.
func IsInvalidPath(err error) bool {
	var target *InvalidPathError
	return errors.As(err, &target)
}

// IsInvalidTiming reports whether any error in err's chain is an InvalidTimingError.
func IsInvalidTiming(err error) bool {
	var target *InvalidTimingError
	return errors.As(err, &target)
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError(expected interface{}, actual interface{}) error {
	return errors.Errorf("expected %T but got %T", expected, actual)
}

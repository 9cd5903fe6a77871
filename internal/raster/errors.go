package raster

import (
	"errors"
	"fmt"
)

// ValidationError reports a caller contract violation: an out-of-range
// parameter or mismatched buffer shapes. Engines return it before any
// output is allocated.
type ValidationError struct {
	Op  string // operation that rejected its input, e.g. "downscale"
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Invalid returns a *ValidationError for op.
func Invalid(op, msg string) error {
	return &ValidationError{Op: op, Msg: msg}
}

// Invalidf is Invalid with fmt.Sprintf formatting.
func Invalidf(op, format string, args ...interface{}) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Package errors provides shared error helpers; it must not depend on internal.
package errors

import (
	"errors"
	"fmt"
)

// Common sentinels.
var (
	ErrInvalidArg    = errors.New("invalid argument")
	ErrViolation     = errors.New("invariant violation")
	ErrMisconfigured = errors.New("harness misconfigured")
)

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// Wrap wraps err with a message.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Package errors provides sentinel errors and error types for the chess
// engine. It defines the few recoverable error conditions the core can
// report while allowing inspection with errors.Is() and errors.As().
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions.
// Use these with errors.Is() to check for specific error types.
var (
	// ErrMagicSearch indicates the magic-number search exhausted its try
	// budget while building the sliding-piece attack tables.
	ErrMagicSearch = errors.New("magic number search failed")

	// ErrInvalidConfig indicates invalid configuration values.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrBadMagic indicates a caller-supplied magic multiplier is not a
	// perfect hash for its square.
	ErrBadMagic = errors.New("supplied magic number is not perfect")
)

// MagicError reports which square and ray family the magic-number search
// gave up on. It is a fatal initialisation failure; with a working search it
// never triggers in practice.
type MagicError struct {
	Square   uint8 // 0..63
	Cardinal bool  // true for rook-like rays, false for bishop-like
	Tries    int   // attempts made before giving up
}

// Error returns a formatted message naming the square and ray family.
func (e *MagicError) Error() string {
	family := "ordinal"
	if e.Cardinal {
		family = "cardinal"
	}
	return fmt.Sprintf("%s magic number generation failed on square %d after %d tries", family, e.Square, e.Tries)
}

// Unwrap returns ErrMagicSearch so errors.Is works through the wrapper.
func (e *MagicError) Unwrap() error {
	return ErrMagicSearch
}

// Wrap adds context to an error while preserving the underlying error
// for inspection with errors.Is() and errors.As().
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf adds formatted context to an error while preserving the underlying
// error for inspection with errors.Is() and errors.As().
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

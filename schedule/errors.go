/*
errors.go - Centralized error types for the scheduling core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Business-rule failures are NOT errors here: the validators return
  ValidationResult values so callers can collect every failure message.
  Errors are reserved for programming mistakes (unknown frequency,
  malformed period).

SEE ALSO:
  - frequency.go: Returns ErrInvalidFrequency
  - validate.go: ValidationResult for business-rule failures
*/
package schedule

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidFrequency is returned for a frequency outside the closed
	// enum. This is a programming error and is never silently defaulted.
	ErrInvalidFrequency = errors.New("invalid payment frequency")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidFrequencyError reports the offending value.
type InvalidFrequencyError struct {
	Value string
}

func (e *InvalidFrequencyError) Error() string {
	return fmt.Sprintf("invalid payment frequency %q", e.Value)
}

func (e *InvalidFrequencyError) Unwrap() error {
	return ErrInvalidFrequency
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrInvalidPeriod)
}

/*
errors.go - Error types for the amortization engine

ERROR CATEGORIES:
  1. Invalid terms - The inputs describe no sensible loan
  2. Non-terminating - The balance would not reach zero within the horizon
  3. Arithmetic degenerate - The report cannot be derived (zero years, NaN)

All three are deterministic. Retrying the same terms fails the same way.

USAGE:
  if errors.Is(err, amortization.ErrInvalidTerms) {
      var ite *amortization.InvalidTermsError
      errors.As(err, &ite)
      fmt.Println(ite.Field)
  }
*/
package amortization

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidTerms is returned when a Terms value fails validation.
	ErrInvalidTerms = errors.New("invalid loan terms")

	// ErrNonTerminating is returned when the simulation exceeds its year
	// horizon or stops reducing the balance.
	ErrNonTerminating = errors.New("simulation does not terminate")

	// ErrArithmeticDegenerate is returned when the effective rate cannot be
	// computed, e.g. zero elapsed years.
	ErrArithmeticDegenerate = errors.New("degenerate arithmetic")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidTermsError names the offending field.
type InvalidTermsError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidTermsError) Error() string {
	return fmt.Sprintf("invalid loan terms: %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidTermsError) Unwrap() error {
	return ErrInvalidTerms
}

// NonTerminatingError reports where the simulation gave up.
type NonTerminatingError struct {
	Years   int
	Balance float64
	Reason  string
}

func (e *NonTerminatingError) Error() string {
	return fmt.Sprintf("simulation does not terminate: %s after %d years (balance %.2f)",
		e.Reason, e.Years, e.Balance)
}

func (e *NonTerminatingError) Unwrap() error {
	return ErrNonTerminating
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is caused by the caller's input
// rather than by the simulation itself.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidTerms)
}

package scoring

import (
	"errors"
	"fmt"
)

// ErrOracleUnavailable signals that a price estimate could not be produced.
// It is recoverable: callers fall back to the listing price and keep scoring.
var ErrOracleUnavailable = errors.New("price oracle unavailable")

// ValidationError marks a malformed or missing mandatory input field.
// It rejects the whole request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ScoringError wraps a failure scoring a single candidate. The batch
// continues; the candidate is logged and excluded from results.
type ScoringError struct {
	PropertyID string
	Err        error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("score property %s: %v", e.PropertyID, e.Err)
}

func (e *ScoringError) Unwrap() error { return e.Err }

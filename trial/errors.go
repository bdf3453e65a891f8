package trial

import "errors"

// Error taxonomy. All of these are fatal to the call that surfaces them and
// are never retried; callers discriminate with errors.Is.
var (
	// ErrConfiguration reports invalid design parameters: negative
	// probabilities, inverted thresholds, too-small tolerances, or
	// too-small Monte-Carlo sample counts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidDose reports a dose level that does not exist in the
	// record sequence.
	ErrInvalidDose = errors.New("dose level not found")

	// ErrDomain reports a probability argument outside [0,1] passed to the
	// likelihood.
	ErrDomain = errors.New("probability outside [0,1]")

	// ErrDivisionByZero reports an attempt to derive outcome rates from a
	// zero total count.
	ErrDivisionByZero = errors.New("zero total count")

	// ErrTableNotFound reports a decision-table lookup for a sample size
	// with no precomputed table. The simulation engine never substitutes a
	// different table.
	ErrTableNotFound = errors.New("no decision table for sample size")
)

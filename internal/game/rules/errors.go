package rules

import "errors"

var (
	// ErrInvariantViolation marks a card effect asking for something the
	// game state cannot do, such as melding a card that is not in hand.
	// The activation is aborted.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrDecisionViolation is returned when a decider keeps answering
	// outside the legal options.
	ErrDecisionViolation = errors.New("decision violation")
)

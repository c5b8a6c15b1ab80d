package models

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownGame means the game id has no catalog entry. This is a
	// config/programming error, not something the player can fix.
	ErrUnknownGame = errors.New("unknown game")

	// ErrInsufficientFunds is returned before any state mutation when the
	// stake exceeds the optimistic balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRoundInFlight is returned when a bet arrives while a prior round
	// has not reached a terminal state. Bets are rejected, never queued.
	ErrRoundInFlight = errors.New("round already in flight")

	// ErrLedgerUnavailable wraps any failure of the remote ledger call.
	// The local round result is never rolled back because of it.
	ErrLedgerUnavailable = errors.New("ledger unavailable")

	// ErrNoLiveRound is returned for a cash-out with no rising-multiplier
	// round running.
	ErrNoLiveRound = errors.New("no live round to cash out")
)

// ValidationError covers illegal choices and non-positive amounts. It is
// always raised before resolution, so the caller can correct the input and
// retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

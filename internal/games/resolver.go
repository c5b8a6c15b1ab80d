package games

import "casino-miniapp-backend/internal/models"

// Game is one catalog entry: choice validation, outcome resolution and
// settlement for a single game. Resolve draws from the injected Source and
// never touches balances; Settle is pure.
type Game interface {
	Definition() models.GameDefinition

	// ValidateChoice rejects choices outside the game's choice set with a
	// ValidationError.
	ValidateChoice(choice string) error

	// Resolve produces the round's raw facts for a validated bet.
	Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error)

	// Settle derives win/loss and profit from the raw outcome, per the
	// game's payout rule. Fractional multiplier results are floored to the
	// next lower whole credit.
	Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome
}

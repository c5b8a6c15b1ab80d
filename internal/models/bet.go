package models

// BetRequest is one stake submission. Choice is game-specific and is
// validated against the catalog entry before any state changes.
type BetRequest struct {
	GameID GameType `json:"game_id" binding:"required"`
	Amount int64    `json:"amount" binding:"required"`
	Choice string   `json:"choice" binding:"required"`
}

// Validate checks the game-independent constraints. Choice membership is
// checked by the game itself.
func (br *BetRequest) Validate() error {
	if br.Amount <= 0 {
		return NewValidationError("amount", "bet amount must be a positive integer")
	}
	if br.Choice == "" {
		return NewValidationError("choice", "choice is required")
	}
	return nil
}

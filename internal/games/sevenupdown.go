package games

import (
	"fmt"

	"casino-miniapp-backend/internal/models"
)

const (
	ChoiceUp     = "Up"
	ChoiceDown   = "Down"
	ChoiceLucky7 = "7"
)

// SevenUpDown rolls two dice. Up wins on a sum above 7, Down below 7, both
// at 1x. Calling exactly 7 pays 4x; any other choice gets no credit for a 7.
type SevenUpDown struct{}

func (g *SevenUpDown) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeSevenUpDown,
		DisplayName:   "7 Up Down",
		Choices:       []string{ChoiceDown, ChoiceLucky7, ChoiceUp},
		MaxMultiplier: 4,
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *SevenUpDown) ValidateChoice(choice string) error {
	switch choice {
	case ChoiceUp, ChoiceDown, ChoiceLucky7:
		return nil
	}
	return models.NewValidationError("choice", "must be Up, Down or 7")
}

func (g *SevenUpDown) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	d1 := 1 + src.IntN(6)
	d2 := 1 + src.IntN(6)

	return &models.RawOutcome{
		GameID: models.GameTypeSevenUpDown,
		Label:  fmt.Sprintf("Dice: %d + %d = %d", d1, d2, d1+d2),
		Draws:  []int{d1, d2},
	}, nil
}

func (g *SevenUpDown) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	sum := raw.Draws[0] + raw.Draws[1]

	switch {
	case bet.Choice == ChoiceUp && sum > 7:
		return win(bet.Amount)
	case bet.Choice == ChoiceDown && sum < 7:
		return win(bet.Amount)
	case bet.Choice == ChoiceLucky7 && sum == 7:
		return win(4 * bet.Amount)
	}
	return loss(bet.Amount)
}

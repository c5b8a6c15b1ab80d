package games

import (
	"fmt"

	"casino-miniapp-backend/internal/models"
)

const (
	ChoiceAndar = "Andar"
	ChoiceBahar = "Bahar"
)

// AndarBahar is an even-odds side call: the matching card lands inside or
// outside with equal probability, a correct call pays 1x.
type AndarBahar struct{}

func (g *AndarBahar) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeAndarBahar,
		DisplayName:   "Andar Bahar",
		Choices:       []string{ChoiceAndar, ChoiceBahar},
		MaxMultiplier: 1,
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *AndarBahar) ValidateChoice(choice string) error {
	if choice != ChoiceAndar && choice != ChoiceBahar {
		return models.NewValidationError("choice", "must be Andar or Bahar")
	}
	return nil
}

func (g *AndarBahar) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	side := 1
	if src.Float64() < 0.5 {
		side = 0
	}

	name := ChoiceBahar
	if side == 0 {
		name = ChoiceAndar
	}

	return &models.RawOutcome{
		GameID: models.GameTypeAndarBahar,
		Label:  fmt.Sprintf("Result: %s", name),
		Draws:  []int{side},
	}, nil
}

func (g *AndarBahar) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	landed := ChoiceBahar
	if raw.Draws[0] == 0 {
		landed = ChoiceAndar
	}

	if bet.Choice == landed {
		return win(bet.Amount)
	}
	return loss(bet.Amount)
}

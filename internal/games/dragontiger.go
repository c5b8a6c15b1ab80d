package games

import (
	"fmt"

	"casino-miniapp-backend/internal/models"
)

// rankNames orders the 13-card deck from lowest to highest.
var rankNames = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

const (
	ChoiceDragon = "Dragon"
	ChoiceTiger  = "Tiger"
	ChoiceTie    = "Tie"
)

// DragonTiger draws one card for each side; the higher rank wins, equal
// ranks are a tie. Backing a side pays 1x, calling the tie pays 8x. A tie
// outcome loses for anyone who backed a side.
type DragonTiger struct{}

func (g *DragonTiger) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeDragonTiger,
		DisplayName:   "Dragon vs Tiger",
		Choices:       []string{ChoiceDragon, ChoiceTie, ChoiceTiger},
		MaxMultiplier: 8,
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *DragonTiger) ValidateChoice(choice string) error {
	switch choice {
	case ChoiceDragon, ChoiceTiger, ChoiceTie:
		return nil
	}
	return models.NewValidationError("choice", "must be Dragon, Tiger or Tie")
}

func (g *DragonTiger) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	dragon := src.IntN(len(rankNames))
	tiger := src.IntN(len(rankNames))

	return &models.RawOutcome{
		GameID: models.GameTypeDragonTiger,
		Label:  fmt.Sprintf("Dragon: %s | Tiger: %s", rankNames[dragon], rankNames[tiger]),
		Draws:  []int{dragon, tiger},
	}, nil
}

func (g *DragonTiger) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	dragon, tiger := raw.Draws[0], raw.Draws[1]

	switch {
	case bet.Choice == ChoiceDragon && dragon > tiger:
		return win(bet.Amount)
	case bet.Choice == ChoiceTiger && tiger > dragon:
		return win(bet.Amount)
	case bet.Choice == ChoiceTie && dragon == tiger:
		return win(8 * bet.Amount)
	}
	return loss(bet.Amount)
}

package games

import (
	"fmt"
	"strconv"

	"casino-miniapp-backend/internal/models"
)

const (
	// ChoiceRace selects the race-to-target variant instead of a guess.
	ChoiceRace = "race"

	// raceFinish is the track distance both sides roll toward.
	raceFinish = 20
)

// LuckyDice has two variants. Guessing the roll of a single die ("1".."6")
// pays 5x. The race variant ("race") rolls one die for the player and one
// for an opposing track each tick until either reaches the finish; winning
// the race pays 1x. Both dice of a tick are drawn before either side is
// checked, and the player's track is checked first, so a simultaneous
// finish goes to the player.
type LuckyDice struct{}

func (g *LuckyDice) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeLuckyDice,
		DisplayName:   "Ludo",
		Choices:       []string{"1", "2", "3", "4", "5", "6", ChoiceRace},
		MaxMultiplier: 5,
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *LuckyDice) ValidateChoice(choice string) error {
	if choice == ChoiceRace {
		return nil
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > 6 {
		return models.NewValidationError("choice", "must be a die value 1-6 or race")
	}
	return nil
}

func (g *LuckyDice) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	if bet.Choice == ChoiceRace {
		return g.resolveRace(src), nil
	}

	roll := 1 + src.IntN(6)
	return &models.RawOutcome{
		GameID: models.GameTypeLuckyDice,
		Label:  fmt.Sprintf("Dice: %d", roll),
		Draws:  []int{roll},
	}, nil
}

func (g *LuckyDice) resolveRace(src Source) *models.RawOutcome {
	var player, opponent int
	for player < raceFinish && opponent < raceFinish {
		player += 1 + src.IntN(6)
		opponent += 1 + src.IntN(6)
	}

	return &models.RawOutcome{
		GameID:        models.GameTypeLuckyDice,
		Label:         fmt.Sprintf("Race: you %d | rival %d", player, opponent),
		PlayerTrack:   player,
		OpponentTrack: opponent,
	}
}

func (g *LuckyDice) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	if bet.Choice == ChoiceRace {
		// Player's step is evaluated first, so reaching the finish in the
		// same tick as the opponent still wins.
		if raw.PlayerTrack >= raceFinish {
			return win(bet.Amount)
		}
		return loss(bet.Amount)
	}

	if strconv.Itoa(raw.Draws[0]) == bet.Choice {
		return win(5 * bet.Amount)
	}
	return loss(bet.Amount)
}

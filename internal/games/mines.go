package games

import (
	"fmt"
	"strconv"

	"casino-miniapp-backend/internal/models"
)

const (
	minesGridSize  = 25
	minesMineCount = 5
	minesMaxReveal = minesGridSize - minesMineCount

	// minesStepBonus is the multiplier gain per safe reveal:
	// multiplier = 1 + 0.3 * tilesRevealed.
	minesStepBonus = 0.3
)

// Mines hides a fixed number of mines on a 25-tile grid. The choice is how
// many tiles to reveal before cashing out; each reveal picks uniformly among
// the unrevealed tiles, so the k-th reveal hits a mine with probability
// remainingMines / remainingUnrevealedTiles. Surviving all reveals pays
// 1 + 0.3 per tile; hitting a mine forfeits the whole bet.
type Mines struct{}

func (g *Mines) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeMines,
		DisplayName:   "Mines",
		Choices:       []string{"3", "5", "7", "10"},
		MaxMultiplier: minesStepBonus * minesMaxReveal, // profit bound at 20 safe tiles
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *Mines) ValidateChoice(choice string) error {
	n, err := strconv.Atoi(choice)
	if err != nil {
		return models.NewValidationError("choice", "must be a tile count")
	}
	// Cashing out with zero tiles revealed is a validation error, not a
	// zero-profit win.
	if n < 1 || n > minesMaxReveal {
		return models.NewValidationError("choice",
			fmt.Sprintf("tile count must be between 1 and %d", minesMaxReveal))
	}
	return nil
}

func (g *Mines) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	reveals, err := strconv.Atoi(bet.Choice)
	if err != nil {
		return nil, models.NewValidationError("choice", "must be a tile count")
	}

	mines := drawMinePositions(src)

	// Reveal tiles one by one, uniformly among the unrevealed ones. The
	// round resolves the moment a mine comes up.
	remaining := make([]int, minesGridSize)
	for i := range remaining {
		remaining[i] = i
	}

	safe := 0
	hit := false
	for i := 0; i < reveals; i++ {
		idx := src.IntN(len(remaining))
		tile := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)

		if mines[tile] {
			hit = true
			break
		}
		safe++
	}

	label := fmt.Sprintf("%d safe tiles!", safe)
	if hit {
		label = fmt.Sprintf("Hit a mine after %d safe tiles", safe)
	}

	return &models.RawOutcome{
		GameID:      models.GameTypeMines,
		Label:       label,
		SafeReveals: safe,
		HitMine:     hit,
	}, nil
}

// drawMinePositions places the mines uniformly without replacement.
func drawMinePositions(src Source) map[int]bool {
	mines := make(map[int]bool, minesMineCount)
	for len(mines) < minesMineCount {
		mines[src.IntN(minesGridSize)] = true
	}
	return mines
}

func (g *Mines) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	if raw.HitMine {
		return loss(bet.Amount)
	}
	multiplier := 1 + minesStepBonus*float64(raw.SafeReveals)
	return win(profitFromMultiplier(bet.Amount, multiplier))
}

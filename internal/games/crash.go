package games

import (
	"fmt"
	"strconv"

	"casino-miniapp-backend/internal/models"
)

const (
	// ChoiceLive runs the rising-multiplier round with an explicit cash-out
	// instead of a preselected target.
	ChoiceLive = "live"

	// Crash points are drawn uniformly in [crashMin, crashMax).
	crashMin = 1.0
	crashMax = 10.0
)

// Crash draws a hidden crash point in [1, 10). A cash-out at multiplier m
// wins iff m <= crashPoint and pays floor(amount * (m - 1)); otherwise the
// whole bet is lost. The choice is either a target multiplier locked in up
// front or "live", where the multiplier rises on a clock until the player
// cashes out or the crash fires.
type Crash struct{}

func (g *Crash) Definition() models.GameDefinition {
	return models.GameDefinition{
		ID:            models.GameTypeCrash,
		DisplayName:   "Crash",
		Choices:       []string{"1.5", "2", "3", "5", ChoiceLive},
		MaxMultiplier: crashMax - 1,
		MinBet:        defaultMinBet,
		MaxBet:        defaultMaxBet,
	}
}

func (g *Crash) ValidateChoice(choice string) error {
	if choice == ChoiceLive {
		return nil
	}
	target, err := strconv.ParseFloat(choice, 64)
	if err != nil || target <= crashMin || target >= crashMax {
		return models.NewValidationError("choice",
			fmt.Sprintf("target multiplier must be between %.2f and %.2f, or live", crashMin, crashMax))
	}
	return nil
}

// DrawCrashPoint draws the round's crash point. Exposed for the live round
// loop, which draws the point up front and races the clock against the
// player's cash-out.
func DrawCrashPoint(src Source) float64 {
	return crashMin + src.Float64()*(crashMax-crashMin)
}

// CrashOutcome builds the raw outcome for a finished crash round. cashoutAt
// is 0 when the round crashed before any cash-out.
func CrashOutcome(crashPoint, cashoutAt float64) *models.RawOutcome {
	return &models.RawOutcome{
		GameID:     models.GameTypeCrash,
		Label:      fmt.Sprintf("Crash: %.2fx", crashPoint),
		CrashPoint: crashPoint,
		CashoutAt:  cashoutAt,
	}
}

// Resolve handles the preselected-target form; live rounds are driven by
// the round engine's clock and settle through CrashOutcome instead.
func (g *Crash) Resolve(src Source, bet *models.BetRequest) (*models.RawOutcome, error) {
	if bet.Choice == ChoiceLive {
		return nil, models.NewValidationError("choice", "live rounds resolve through cash-out")
	}

	target, err := strconv.ParseFloat(bet.Choice, 64)
	if err != nil {
		return nil, models.NewValidationError("choice", "target multiplier must be a number")
	}

	return CrashOutcome(DrawCrashPoint(src), target), nil
}

func (g *Crash) Settle(bet *models.BetRequest, raw *models.RawOutcome) *models.RoundOutcome {
	if raw.CashoutAt > 0 && raw.CashoutAt <= raw.CrashPoint {
		return win(profitFromMultiplier(bet.Amount, raw.CashoutAt))
	}
	return loss(bet.Amount)
}

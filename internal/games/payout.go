package games

import (
	"math"

	"casino-miniapp-backend/internal/models"
)

const (
	defaultMinBet int64 = 1
	defaultMaxBet int64 = 100000
)

// profitFromMultiplier floors amount*multiplier to whole credits and
// subtracts the stake, so a 2.5x win on 100 yields +150.
func profitFromMultiplier(amount int64, multiplier float64) int64 {
	return int64(math.Floor(float64(amount)*multiplier)) - amount
}

func win(profit int64) *models.RoundOutcome {
	return &models.RoundOutcome{Win: true, ProfitLoss: profit}
}

func loss(amount int64) *models.RoundOutcome {
	return &models.RoundOutcome{Win: false, ProfitLoss: -amount}
}

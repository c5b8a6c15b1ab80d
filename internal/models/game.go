package models

type GameType string

const (
	GameTypeDragonTiger GameType = "dragon_tiger"
	GameTypeSevenUpDown GameType = "seven_updown"
	GameTypeAndarBahar  GameType = "andar_bahar"
	GameTypeLuckyDice   GameType = "lucky_dice"
	GameTypeMines       GameType = "mines"
	GameTypeCrash       GameType = "crash"
)

// GameDefinition is one immutable catalog entry, loaded once at startup.
// Choices lists the preset options the UI offers; games with open-ended
// choices (mines tile counts, crash targets) accept more than what is
// listed here, validated by the game itself.
type GameDefinition struct {
	ID          GameType `json:"id"`
	DisplayName string   `json:"display_name"`
	Choices     []string `json:"choices"`

	// MaxMultiplier bounds |profitLoss| / amount for any legal choice.
	MaxMultiplier float64 `json:"max_multiplier"`

	MinBet int64 `json:"min_bet"`
	MaxBet int64 `json:"max_bet"`
}

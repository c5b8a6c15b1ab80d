package models

import "time"

// RawOutcome holds the resolved facts of one round: what was drawn, where
// the crash landed, how many tiles came up safe. Produced once per round and
// never mutated. Only the fields for the round's game are populated.
type RawOutcome struct {
	GameID GameType `json:"game_id"`

	// Label is the human description recorded on the ledger,
	// e.g. "Dragon: K | Tiger: 5" or "Crash: 3.42x".
	Label string `json:"label"`

	// Draws are the raw uniform values: two card ranks, two dice faces,
	// a single die value, or a 0/1 side.
	Draws []int `json:"draws,omitempty"`

	// Crash fields. CashoutAt is 0 when the round crashed before any
	// cash-out.
	CrashPoint float64 `json:"crash_point,omitempty"`
	CashoutAt  float64 `json:"cashout_at,omitempty"`

	// Mines fields.
	SafeReveals int  `json:"safe_reveals,omitempty"`
	HitMine     bool `json:"hit_mine,omitempty"`

	// Race-dice fields: final track totals.
	PlayerTrack   int `json:"player_track,omitempty"`
	OpponentTrack int `json:"opponent_track,omitempty"`
}

// RoundOutcome is the settled result. ProfitLoss is negative on a loss
// (-amount) and non-negative on a win, per the game's payout rule.
type RoundOutcome struct {
	Win        bool  `json:"win"`
	ProfitLoss int64 `json:"profit_loss"`
}

// RoundRecord is the history entry kept locally for every completed round.
// Synced is false while the round has not been confirmed by the remote
// ledger.
type RoundRecord struct {
	ID         string    `json:"id" redis:"id"`
	UserID     int64     `json:"user_id" redis:"user_id"`
	GameID     GameType  `json:"game_id" redis:"game_id"`
	Amount     int64     `json:"amount" redis:"amount"`
	Choice     string    `json:"choice" redis:"choice"`
	Outcome    string    `json:"outcome" redis:"outcome"`
	ProfitLoss int64     `json:"profit_loss" redis:"profit_loss"`
	Win        bool      `json:"win" redis:"win"`
	Synced     bool      `json:"synced" redis:"synced"`
	CreatedAt  time.Time `json:"created_at" redis:"created_at"`
}

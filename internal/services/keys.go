package services

import "time"

const (
	KeyWallet       = "wallet:%d"
	KeyRound        = "round:%s"
	KeyUserRounds   = "user:%d:rounds"
	KeyUserUnsynced = "user:%d:unsynced_rounds"
	KeyRateLimit    = "ratelimit:%d:%s"
	KeyBonusState   = "bonus:%d"

	TTLRound = 30 * 24 * time.Hour // 30 days

	DefaultRateLimitBets     = 30 // max 30 bets per minute
	DefaultRateLimitCashouts = 60 // max 60 cash-outs per minute
)

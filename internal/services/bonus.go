package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// KV is the keyed persistence seam for day-based bonus tracking. It is
// injected explicitly so the round engine itself carries no hidden durable
// state.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

var ErrBonusAlreadyClaimed = errors.New("bonus already claimed today")

const (
	bonusBase      int64 = 10
	bonusStreakCap       = 7
)

// BonusService awards a daily login bonus that grows with consecutive play
// days: 10 credits times the streak, capped at a 7-day streak.
type BonusService struct {
	kv  KV
	now func() time.Time
}

func NewBonusService(kv KV) *BonusService {
	return &BonusService{kv: kv, now: time.Now}
}

type bonusState struct {
	LastDay string `json:"last_day"`
	Streak  int    `json:"streak"`
}

type BonusResult struct {
	Amount int64 `json:"amount"`
	Streak int   `json:"streak"`
}

// Claim awards today's bonus, or ErrBonusAlreadyClaimed if it was already
// taken. A missed day resets the streak to one.
func (b *BonusService) Claim(ctx context.Context, userID int64) (*BonusResult, error) {
	key := fmt.Sprintf(KeyBonusState, userID)
	today := b.now().Format("2006-01-02")
	yesterday := b.now().AddDate(0, 0, -1).Format("2006-01-02")

	var state bonusState
	data, ok, err := b.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load bonus state: %v", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(data), &state); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bonus state: %v", err)
		}
	}

	if state.LastDay == today {
		return nil, ErrBonusAlreadyClaimed
	}

	if state.LastDay == yesterday {
		state.Streak++
	} else {
		state.Streak = 1
	}
	if state.Streak > bonusStreakCap {
		state.Streak = bonusStreakCap
	}
	state.LastDay = today

	updated, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bonus state: %v", err)
	}
	if err := b.kv.Put(ctx, key, string(updated)); err != nil {
		return nil, fmt.Errorf("failed to save bonus state: %v", err)
	}

	return &BonusResult{
		Amount: bonusBase * int64(state.Streak),
		Streak: state.Streak,
	}, nil
}

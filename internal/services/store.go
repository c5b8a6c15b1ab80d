package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"casino-miniapp-backend/internal/config"
	"casino-miniapp-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Store keeps wallets, round history and bonus state in redis.
type Store struct {
	client          *redis.Client
	startingBalance int64
}

func NewStore(cfg *config.Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	return &Store{
		client:          client,
		startingBalance: cfg.StartingBalance,
	}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// GetWallet loads the session wallet, creating it with the starting balance
// on first sight. A fresh wallet starts synced: nothing has diverged yet.
func (s *Store) GetWallet(ctx context.Context, userID int64) (*models.WalletBalance, error) {
	key := fmt.Sprintf(KeyWallet, userID)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		wallet := &models.WalletBalance{
			UserID:        userID,
			Optimistic:    s.startingBalance,
			Authoritative: s.startingBalance,
			Synced:        true,
		}
		if err := s.SaveWallet(ctx, wallet); err != nil {
			return nil, fmt.Errorf("failed to create wallet: %v", err)
		}
		return wallet, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %v", err)
	}

	var wallet models.WalletBalance
	if err := json.Unmarshal([]byte(data), &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %v", err)
	}
	return &wallet, nil
}

func (s *Store) SaveWallet(ctx context.Context, wallet *models.WalletBalance) error {
	key := fmt.Sprintf(KeyWallet, wallet.UserID)

	data, err := json.Marshal(wallet)
	if err != nil {
		return fmt.Errorf("failed to marshal wallet: %v", err)
	}
	return s.client.Set(ctx, key, data, 0).Err()
}

// SaveRound stores the history entry and indexes it on the user's recent
// rounds. Unsynced rounds are additionally tracked so the UI can flag them.
func (s *Store) SaveRound(ctx context.Context, rec *models.RoundRecord) error {
	key := fmt.Sprintf(KeyRound, rec.ID)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}
	if err := s.client.Set(ctx, key, data, TTLRound).Err(); err != nil {
		return fmt.Errorf("failed to save round: %v", err)
	}

	userKey := fmt.Sprintf(KeyUserRounds, rec.UserID)
	if err := s.client.ZAdd(ctx, userKey, redis.Z{
		Score:  float64(rec.CreatedAt.Unix()),
		Member: rec.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index round: %v", err)
	}

	// Keep only the last 100 rounds per user.
	s.client.ZRemRangeByRank(ctx, userKey, 0, -101)

	unsyncedKey := fmt.Sprintf(KeyUserUnsynced, rec.UserID)
	if rec.Synced {
		s.client.SRem(ctx, unsyncedKey, rec.ID)
	} else {
		s.client.SAdd(ctx, unsyncedKey, rec.ID)
	}

	return nil
}

func (s *Store) GetRoundHistory(ctx context.Context, userID int64, limit int64) ([]*models.RoundRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	userKey := fmt.Sprintf(KeyUserRounds, userID)
	roundIDs, err := s.client.ZRevRange(ctx, userKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round ids: %v", err)
	}

	var rounds []*models.RoundRecord
	for _, roundID := range roundIDs {
		data, err := s.client.Get(ctx, fmt.Sprintf(KeyRound, roundID)).Result()
		if err != nil {
			continue
		}

		var rec models.RoundRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			continue
		}
		rounds = append(rounds, &rec)
	}

	return rounds, nil
}

// UnsyncedRoundIDs lists rounds whose ledger record never confirmed.
func (s *Store) UnsyncedRoundIDs(ctx context.Context, userID int64) ([]string, error) {
	key := fmt.Sprintf(KeyUserUnsynced, userID)
	ids, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get unsynced rounds: %v", err)
	}
	return ids, nil
}

func (s *Store) CheckRateLimit(ctx context.Context, userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}
	if count == 1 {
		s.client.Expire(ctx, key, window)
	}

	return count <= int64(limit), nil
}

// Get implements the KV seam used by the bonus tracker.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

// Put implements the KV seam used by the bonus tracker.
func (s *Store) Put(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Store) DeleteWallet(ctx context.Context, userID int64) error {
	return s.client.Del(ctx, fmt.Sprintf(KeyWallet, userID)).Err()
}

func (s *Store) DeleteRound(ctx context.Context, userID int64, roundID string) error {
	if err := s.client.Del(ctx, fmt.Sprintf(KeyRound, roundID)).Err(); err != nil {
		return err
	}
	s.client.ZRem(ctx, fmt.Sprintf(KeyUserRounds, userID), roundID)
	s.client.SRem(ctx, fmt.Sprintf(KeyUserUnsynced, userID), roundID)
	return nil
}

package services

import (
	"context"
	"os"
	"testing"
	"time"

	"casino-miniapp-backend/internal/config"
	"casino-miniapp-backend/internal/models"
)

// testStore connects to the redis named by REDIS_ADDR, or skips.
func testStore(t *testing.T) *Store {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping redis-backed tests")
	}

	store, err := NewStore(&config.Config{
		RedisURL:        addr,
		RedisDB:         9,
		StartingBalance: 1000,
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreWalletLifecycle(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	const userID = int64(90001)
	t.Cleanup(func() { store.DeleteWallet(ctx, userID) })
	store.DeleteWallet(ctx, userID)

	wallet, err := store.GetWallet(ctx, userID)
	if err != nil {
		t.Fatalf("GetWallet: %v", err)
	}
	if wallet.Optimistic != 1000 || wallet.Authoritative != 1000 || !wallet.Synced {
		t.Fatalf("fresh wallet should start synced at 1000, got %+v", wallet)
	}

	wallet.Apply(250)
	if err := store.SaveWallet(ctx, wallet); err != nil {
		t.Fatalf("SaveWallet: %v", err)
	}

	loaded, err := store.GetWallet(ctx, userID)
	if err != nil {
		t.Fatalf("GetWallet reload: %v", err)
	}
	if loaded.Optimistic != 1250 || loaded.Synced {
		t.Errorf("expected unsynced 1250 after apply, got %+v", loaded)
	}
}

func TestStoreRoundHistoryAndUnsyncedIndex(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	const userID = int64(90002)

	recs := []*models.RoundRecord{
		{ID: "round_t_1", UserID: userID, GameID: models.GameTypeDragonTiger,
			Amount: 100, Choice: "Dragon", ProfitLoss: 100, Win: true, Synced: true,
			CreatedAt: time.Now().Add(-2 * time.Minute)},
		{ID: "round_t_2", UserID: userID, GameID: models.GameTypeMines,
			Amount: 50, Choice: "5", ProfitLoss: -50, Synced: false,
			CreatedAt: time.Now().Add(-1 * time.Minute)},
	}
	t.Cleanup(func() {
		for _, rec := range recs {
			store.DeleteRound(ctx, userID, rec.ID)
		}
	})

	for _, rec := range recs {
		if err := store.SaveRound(ctx, rec); err != nil {
			t.Fatalf("SaveRound(%s): %v", rec.ID, err)
		}
	}

	history, err := store.GetRoundHistory(ctx, userID, 10)
	if err != nil {
		t.Fatalf("GetRoundHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	// Newest first.
	if history[0].ID != "round_t_2" || history[1].ID != "round_t_1" {
		t.Errorf("history out of order: %s, %s", history[0].ID, history[1].ID)
	}

	unsynced, err := store.UnsyncedRoundIDs(ctx, userID)
	if err != nil {
		t.Fatalf("UnsyncedRoundIDs: %v", err)
	}
	if len(unsynced) != 1 || unsynced[0] != "round_t_2" {
		t.Errorf("expected only round_t_2 unsynced, got %v", unsynced)
	}

	// Re-saving a round as synced clears it from the index.
	recs[1].Synced = true
	if err := store.SaveRound(ctx, recs[1]); err != nil {
		t.Fatalf("SaveRound resync: %v", err)
	}
	unsynced, _ = store.UnsyncedRoundIDs(ctx, userID)
	if len(unsynced) != 0 {
		t.Errorf("expected unsynced index cleared, got %v", unsynced)
	}
}

func TestStoreRateLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	const userID = int64(90003)

	for i := 0; i < 3; i++ {
		ok, err := store.CheckRateLimit(ctx, userID, "test_action", 3, time.Second)
		if err != nil {
			t.Fatalf("CheckRateLimit: %v", err)
		}
		if !ok {
			t.Fatalf("call %d should be within the limit", i+1)
		}
	}

	ok, err := store.CheckRateLimit(ctx, userID, "test_action", 3, time.Second)
	if err != nil {
		t.Fatalf("CheckRateLimit: %v", err)
	}
	if ok {
		t.Error("fourth call should exceed the limit")
	}
}

func TestStoreKVSeam(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "kvtest:missing"); err != nil || ok {
		t.Errorf("missing key should report absent, got ok=%v err=%v", ok, err)
	}

	if err := store.Put(ctx, "kvtest:present", "value"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	t.Cleanup(func() { store.client.Del(ctx, "kvtest:present") })

	v, ok, err := store.Get(ctx, "kvtest:present")
	if err != nil || !ok || v != "value" {
		t.Errorf("expected stored value back, got %q ok=%v err=%v", v, ok, err)
	}
}

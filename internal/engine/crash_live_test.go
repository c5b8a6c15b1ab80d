package engine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"casino-miniapp-backend/internal/engine"
	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/models"
)

// fakeBroadcaster counts pushes so tests can assert the crash clock ran.
type fakeBroadcaster struct {
	mu     sync.Mutex
	ticks  int
	ended  int
	lastAt float64
}

func (b *fakeBroadcaster) BalanceUpdate(int64, *models.WalletBalance) {}

func (b *fakeBroadcaster) CrashTick(_ int64, _ string, multiplier float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ticks++
	b.lastAt = multiplier
}

func (b *fakeBroadcaster) CrashEnded(int64, string, float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ended++
}

func (b *fakeBroadcaster) snapshot() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ticks, b.ended
}

func waitForState(t *testing.T, e *engine.Engine, userID int64, want engine.State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if e.SessionState(userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never reached %s, stuck at %s", want, e.SessionState(userID))
}

func TestLiveCrashCashoutBeforeCrashWins(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	bc := &fakeBroadcaster{}
	// Float 0.99 puts the crash point at 9.91; the round survives long
	// enough for a comfortable cash-out.
	e := newTestEngine(&games.SequenceSource{Floats: []float64{0.99}}, store, ledger,
		engine.WithCrashPace(5*time.Millisecond, 0.05),
		engine.WithBroadcaster(bc),
	)

	res, err := e.PlaceBet(context.Background(), 1, &models.BetRequest{
		GameID: models.GameTypeCrash, Amount: 100, Choice: "live",
	})
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}
	if !res.Live || res.State != engine.StateResolving {
		t.Fatalf("expected a pending live round, got %+v", res)
	}
	if res.Outcome != nil {
		t.Fatal("a live round has no outcome at bet time")
	}

	// Let the multiplier climb a few ticks.
	time.Sleep(40 * time.Millisecond)

	final, err := e.CashoutLive(context.Background(), 1, res.RoundID)
	if err != nil {
		t.Fatalf("CashoutLive: %v", err)
	}

	if !final.Outcome.Win || final.Outcome.ProfitLoss < 0 {
		t.Errorf("cash-out before the crash should win, got win=%v profit=%d",
			final.Outcome.Win, final.Outcome.ProfitLoss)
	}
	if final.Raw.CashoutAt <= 1.0 || final.Raw.CashoutAt > final.Raw.CrashPoint {
		t.Errorf("cash-out multiplier %f out of range (crash at %f)",
			final.Raw.CashoutAt, final.Raw.CrashPoint)
	}
	if final.State != engine.StateReconciled {
		t.Errorf("expected state reconciled, got %s", final.State)
	}
	if final.Wallet.Optimistic != 1000+final.Outcome.ProfitLoss {
		t.Errorf("wallet %d does not match profit %d", final.Wallet.Optimistic, final.Outcome.ProfitLoss)
	}

	ticks, ended := bc.snapshot()
	if ticks == 0 {
		t.Error("expected at least one multiplier tick broadcast")
	}
	if ended != 1 {
		t.Errorf("expected exactly one crash-ended broadcast, got %d", ended)
	}

	// The round is gone; a second cash-out finds nothing.
	if _, err := e.CashoutLive(context.Background(), 1, res.RoundID); !errors.Is(err, models.ErrNoLiveRound) {
		t.Errorf("expected ErrNoLiveRound after settlement, got %v", err)
	}
}

func TestLiveCrashRoundCrashesAsLoss(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	// Float 0 puts the crash point at 1.0: the first tick crashes it.
	e := newTestEngine(&games.SequenceSource{Floats: []float64{0.0}}, store, ledger,
		engine.WithCrashPace(5*time.Millisecond, 0.05),
	)

	res, err := e.PlaceBet(context.Background(), 1, &models.BetRequest{
		GameID: models.GameTypeCrash, Amount: 200, Choice: "live",
	})
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	// The crash settles the round as a loss without any player action.
	waitForState(t, e, 1, engine.StateReconciled)

	if _, err := e.CashoutLive(context.Background(), 1, res.RoundID); !errors.Is(err, models.ErrNoLiveRound) {
		t.Errorf("expected ErrNoLiveRound after the crash, got %v", err)
	}

	w, _ := store.GetWallet(context.Background(), 1)
	if w.Optimistic != 800 {
		t.Errorf("crashed round should forfeit the stake, got balance %d", w.Optimistic)
	}
	rec := store.lastRound()
	if rec == nil || rec.Win || rec.ProfitLoss != -200 {
		t.Errorf("unexpected stored round: %+v", rec)
	}
}

func TestCashoutWithoutLiveRound(t *testing.T) {
	e := newTestEngine(nil, newFakeStore(), newFakeLedger())

	if _, err := e.CashoutLive(context.Background(), 1, "round_x"); !errors.Is(err, models.ErrNoLiveRound) {
		t.Errorf("expected ErrNoLiveRound, got %v", err)
	}
}

func TestLiveRoundBlocksSecondBet(t *testing.T) {
	store := newFakeStore()
	ledger := newFakeLedger()
	e := newTestEngine(&games.SequenceSource{Floats: []float64{0.99}}, store, ledger,
		engine.WithCrashPace(10*time.Millisecond, 0.05),
	)

	res, err := e.PlaceBet(context.Background(), 1, &models.BetRequest{
		GameID: models.GameTypeCrash, Amount: 100, Choice: "live",
	})
	if err != nil {
		t.Fatalf("PlaceBet: %v", err)
	}

	if _, err := e.PlaceBet(context.Background(), 1, &models.BetRequest{
		GameID: models.GameTypeDragonTiger, Amount: 50, Choice: "Dragon",
	}); !errors.Is(err, models.ErrRoundInFlight) {
		t.Errorf("expected ErrRoundInFlight during a live round, got %v", err)
	}

	if _, err := e.CashoutLive(context.Background(), 1, res.RoundID); err != nil {
		t.Fatalf("CashoutLive: %v", err)
	}
}

package models_test

import (
	"testing"

	"casino-miniapp-backend/internal/models"
)

func TestBetRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.BetRequest
		wantErr bool
	}{
		{"valid", models.BetRequest{GameID: models.GameTypeDragonTiger, Amount: 50, Choice: "Dragon"}, false},
		{"zero amount", models.BetRequest{GameID: models.GameTypeDragonTiger, Amount: 0, Choice: "Dragon"}, true},
		{"negative amount", models.BetRequest{GameID: models.GameTypeMines, Amount: -10, Choice: "3"}, true},
		{"missing choice", models.BetRequest{GameID: models.GameTypeCrash, Amount: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !models.IsValidationError(err) {
				t.Errorf("expected a ValidationError, got %T", err)
			}
		})
	}
}

func TestWalletApplyClampsAtZero(t *testing.T) {
	w := &models.WalletBalance{UserID: 1, Optimistic: 100, Authoritative: 100, Synced: true}

	applied := w.Apply(-250)
	if applied != -100 {
		t.Errorf("expected applied loss -100, got %d", applied)
	}
	if w.Optimistic != 0 {
		t.Errorf("expected balance clamped to 0, got %d", w.Optimistic)
	}
	if w.Synced {
		t.Error("wallet should be unsynced after a local settlement")
	}
}

func TestClampProfitLossNeverNegative(t *testing.T) {
	// For any starting balance >= 0 and any loss, balance+clamped is
	// exactly 0 at worst, never negative.
	for balance := int64(0); balance <= 500; balance += 50 {
		for loss := int64(0); loss <= 1000; loss += 100 {
			clamped := models.ClampProfitLoss(balance, -loss)
			if balance+clamped < 0 {
				t.Fatalf("balance %d with loss %d went negative: %d", balance, loss, balance+clamped)
			}
			if loss <= balance && clamped != -loss {
				t.Fatalf("loss %d within balance %d should not be clamped, got %d", loss, balance, clamped)
			}
		}
	}
}

func TestWalletReconcile(t *testing.T) {
	w := &models.WalletBalance{UserID: 1, Optimistic: 1200, Authoritative: 1000, Synced: false}

	w.Reconcile(1200)

	if w.Optimistic != 1200 || w.Authoritative != 1200 {
		t.Errorf("expected both balances at 1200, got %d/%d", w.Optimistic, w.Authoritative)
	}
	if !w.Synced {
		t.Error("wallet should be synced after reconciliation")
	}
}

func TestNewRoundID(t *testing.T) {
	a := models.NewRoundID()
	b := models.NewRoundID()
	if a == "" || a == b {
		t.Errorf("round ids should be unique and non-empty, got %q and %q", a, b)
	}
}

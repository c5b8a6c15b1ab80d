package models

// WalletBalance tracks the session balance in whole credits. Optimistic is
// what the user sees immediately after settlement; Authoritative is the last
// value confirmed by the remote ledger. Synced is false whenever the two may
// diverge.
type WalletBalance struct {
	UserID        int64 `json:"user_id"`
	Optimistic    int64 `json:"optimistic"`
	Authoritative int64 `json:"authoritative"`
	Synced        bool  `json:"synced"`
}

// Apply settles profitLoss against the optimistic balance and marks the
// wallet unsynced. The applied delta is clamped so the balance never goes
// below zero; the clamped value is returned.
func (w *WalletBalance) Apply(profitLoss int64) int64 {
	applied := ClampProfitLoss(w.Optimistic, profitLoss)
	w.Optimistic += applied
	w.Synced = false
	return applied
}

// Reconcile overwrites both balances with the ledger-confirmed value.
func (w *WalletBalance) Reconcile(authoritative int64) {
	w.Optimistic = authoritative
	w.Authoritative = authoritative
	w.Synced = true
}

// ClampProfitLoss floors a loss so balance+profitLoss never drops below
// zero. Bets are validated against the balance beforehand, so hitting the
// clamp means exactly "balance goes to zero", never a negative display
// value.
func ClampProfitLoss(balance, profitLoss int64) int64 {
	if balance+profitLoss < 0 {
		return -balance
	}
	return profitLoss
}

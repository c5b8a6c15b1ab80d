package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/models"
)

// State tracks one session's round lifecycle. A new bet is accepted only
// from the ready states (Idle, Reconciled, Unsynced).
type State string

const (
	StateIdle        State = "idle"
	StateBetPlaced   State = "bet_placed"
	StateResolving   State = "resolving"
	StateSettled     State = "settled"
	StateReconciling State = "reconciling"
	StateReconciled  State = "reconciled"
	StateUnsynced    State = "unsynced"
)

func (s State) ready() bool {
	return s == StateIdle || s == StateReconciled || s == StateUnsynced
}

// Store is the wallet and history persistence the engine needs.
type Store interface {
	GetWallet(ctx context.Context, userID int64) (*models.WalletBalance, error)
	SaveWallet(ctx context.Context, wallet *models.WalletBalance) error
	SaveRound(ctx context.Context, rec *models.RoundRecord) error
}

// Ledger is the narrow contract to the remote balance of record.
type Ledger interface {
	// RecordRound durably records a completed round and returns the
	// ledger-side round id.
	RecordRound(ctx context.Context, rec *models.RoundRecord) (string, error)
	// RefreshBalance pulls the canonical balance after a successful record.
	RefreshBalance(ctx context.Context, userID int64) (int64, error)
}

// Broadcaster pushes display updates; implementations must not block.
type Broadcaster interface {
	BalanceUpdate(userID int64, wallet *models.WalletBalance)
	CrashTick(userID int64, roundID string, multiplier float64)
	CrashEnded(userID int64, roundID string, crashPoint float64)
}

// Engine orchestrates wager rounds: bet validation, outcome resolution,
// payout, optimistic balance update and ledger reconciliation. One round may
// be in flight per session; later bets are rejected, never queued.
type Engine struct {
	catalog     *games.Catalog
	store       Store
	ledger      Ledger
	broadcaster Broadcaster
	src         games.Source

	// resolveDelay simulates the reveal animation between bet and outcome.
	resolveDelay time.Duration

	// Live crash pacing.
	crashTick time.Duration
	crashStep float64

	mu       sync.Mutex
	sessions map[int64]*session
}

type session struct {
	state State
	live  *liveRound
}

// Option configures an Engine.
type Option func(*Engine)

func WithResolveDelay(d time.Duration) Option {
	return func(e *Engine) { e.resolveDelay = d }
}

func WithCrashPace(tick time.Duration, step float64) Option {
	return func(e *Engine) {
		e.crashTick = tick
		e.crashStep = step
	}
}

func WithSource(src games.Source) Option {
	return func(e *Engine) { e.src = src }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(e *Engine) { e.broadcaster = b }
}

func New(catalog *games.Catalog, store Store, ledger Ledger, opts ...Option) *Engine {
	e := &Engine{
		catalog:      catalog,
		store:        store,
		ledger:       ledger,
		src:          games.NewSource(),
		resolveDelay: 800 * time.Millisecond,
		crashTick:    100 * time.Millisecond,
		crashStep:    0.05,
		sessions:     make(map[int64]*session),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BetResult is what one accepted bet produces. For live crash rounds the
// outcome is pending until cash-out or crash, and only RoundID is set.
type BetResult struct {
	RoundID string                `json:"round_id"`
	Outcome *models.RoundOutcome  `json:"outcome,omitempty"`
	Raw     *models.RawOutcome    `json:"raw,omitempty"`
	Wallet  *models.WalletBalance `json:"wallet,omitempty"`
	State   State                 `json:"state"`
	Live    bool                  `json:"live,omitempty"`
}

// SessionState reports the round state for userID.
func (e *Engine) SessionState(userID int64) State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session(userID).state
}

// session must be called with e.mu held.
func (e *Engine) session(userID int64) *session {
	s, ok := e.sessions[userID]
	if !ok {
		s = &session{state: StateIdle}
		e.sessions[userID] = s
	}
	return s
}

// PlaceBet runs one wager round end to end. Validation and funds failures
// leave the session in its prior ready state with no side effects. A ledger
// failure leaves the round Unsynced: the local result stands, it just has
// not been confirmed remotely.
func (e *Engine) PlaceBet(ctx context.Context, userID int64, req *models.BetRequest) (*BetResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	game, err := e.catalog.Game(req.GameID)
	if err != nil {
		return nil, err
	}
	if err := game.ValidateChoice(req.Choice); err != nil {
		return nil, err
	}

	def := game.Definition()
	if req.Amount < def.MinBet || req.Amount > def.MaxBet {
		return nil, models.NewValidationError("amount",
			fmt.Sprintf("bet must be between %d and %d", def.MinBet, def.MaxBet))
	}

	e.mu.Lock()
	sess := e.session(userID)
	if !sess.state.ready() {
		e.mu.Unlock()
		return nil, models.ErrRoundInFlight
	}

	wallet, err := e.store.GetWallet(ctx, userID)
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	if req.Amount > wallet.Optimistic {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: have %d, need %d",
			models.ErrInsufficientFunds, wallet.Optimistic, req.Amount)
	}

	sess.state = StateBetPlaced
	roundID := models.NewRoundID()

	if req.GameID == models.GameTypeCrash && req.Choice == games.ChoiceLive {
		live := e.startLiveRound(sess, userID, roundID, req)
		sess.state = StateResolving
		sess.live = live
		e.mu.Unlock()
		return &BetResult{RoundID: roundID, State: StateResolving, Live: true}, nil
	}
	e.mu.Unlock()

	// Presentation delay: the reveal animation runs here. No balance has
	// been touched yet.
	if e.resolveDelay > 0 {
		time.Sleep(e.resolveDelay)
	}

	e.setState(userID, StateResolving)
	raw, err := game.Resolve(e.src, req)
	if err != nil {
		e.setState(userID, StateIdle)
		return nil, err
	}

	return e.settleAndReconcile(ctx, userID, roundID, game, req, raw)
}

// CashoutLive requests a cash-out of the session's live crash round at the
// currently displayed multiplier. The request is serialized with the crash
// clock; if the crash fires in the same scheduling turn, the crash wins.
func (e *Engine) CashoutLive(ctx context.Context, userID int64, roundID string) (*BetResult, error) {
	e.mu.Lock()
	sess := e.session(userID)
	live := sess.live
	e.mu.Unlock()

	if live == nil || (roundID != "" && live.roundID != roundID) {
		return nil, models.ErrNoLiveRound
	}
	return live.requestCashout(ctx)
}

// Credit applies an out-of-round credit (the daily bonus) to the wallet.
// It takes the same lock the settle path does, so a credit landing while a
// round settles can never overwrite the round's profit, or be overwritten
// by it. The credit is local until the next reconciliation confirms it, so
// the wallet is left unsynced.
func (e *Engine) Credit(ctx context.Context, userID int64, amount int64) (*models.WalletBalance, error) {
	e.mu.Lock()
	wallet, err := e.store.GetWallet(ctx, userID)
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	wallet.Apply(amount)
	if err := e.store.SaveWallet(ctx, wallet); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	e.mu.Unlock()

	e.notifyBalance(userID, wallet)
	return wallet, nil
}

func (e *Engine) setState(userID int64, state State) {
	e.mu.Lock()
	e.session(userID).state = state
	e.mu.Unlock()
}

// settleAndReconcile is the Settled -> Reconciling -> Reconciled|Unsynced
// tail shared by instant rounds and live crash rounds.
func (e *Engine) settleAndReconcile(ctx context.Context, userID int64, roundID string,
	game games.Game, req *models.BetRequest, raw *models.RawOutcome) (*BetResult, error) {

	outcome := game.Settle(req, raw)

	e.setState(userID, StateSettled)

	e.mu.Lock()
	wallet, err := e.store.GetWallet(ctx, userID)
	if err != nil {
		// The outcome exists but cannot be applied; surface the store
		// error and let the session accept the next bet.
		e.session(userID).state = StateIdle
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	applied := wallet.Apply(outcome.ProfitLoss)
	if applied != outcome.ProfitLoss {
		outcome = &models.RoundOutcome{Win: outcome.Win, ProfitLoss: applied}
	}
	if err := e.store.SaveWallet(ctx, wallet); err != nil {
		e.session(userID).state = StateIdle
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}
	e.mu.Unlock()

	e.notifyBalance(userID, wallet)

	rec := &models.RoundRecord{
		ID:         roundID,
		UserID:     userID,
		GameID:     req.GameID,
		Amount:     req.Amount,
		Choice:     req.Choice,
		Outcome:    raw.Label,
		ProfitLoss: outcome.ProfitLoss,
		Win:        outcome.Win,
		CreatedAt:  time.Now(),
	}

	e.setState(userID, StateReconciling)
	final := e.reconcile(ctx, userID, wallet, rec)

	if err := e.store.SaveRound(ctx, rec); err != nil {
		log.Printf("failed to save round %s: %v", rec.ID, err)
	}

	return &BetResult{
		RoundID: roundID,
		Outcome: outcome,
		Raw:     raw,
		Wallet:  wallet,
		State:   final,
	}, nil
}

// reconcile drives the ledger call. Once issued it runs to completion or
// failure; there is no retry and no rollback. On failure the optimistic
// balance from Settled is kept and the round stays unsynced.
func (e *Engine) reconcile(ctx context.Context, userID int64, wallet *models.WalletBalance, rec *models.RoundRecord) State {
	if _, err := e.ledger.RecordRound(ctx, rec); err != nil {
		log.Printf("ledger record failed for round %s: %v", rec.ID, err)
		e.setState(userID, StateUnsynced)
		return StateUnsynced
	}

	authoritative, err := e.ledger.RefreshBalance(ctx, userID)
	if err != nil {
		log.Printf("balance refresh failed for user %d: %v", userID, err)
		e.setState(userID, StateUnsynced)
		return StateUnsynced
	}

	e.mu.Lock()
	wallet.Reconcile(authoritative)
	saveErr := e.store.SaveWallet(ctx, wallet)
	e.mu.Unlock()
	if saveErr != nil {
		log.Printf("failed to persist reconciled wallet for user %d: %v", userID, saveErr)
	}

	rec.Synced = true
	e.setState(userID, StateReconciled)
	e.notifyBalance(userID, wallet)
	return StateReconciled
}

func (e *Engine) notifyBalance(userID int64, wallet *models.WalletBalance) {
	if e.broadcaster != nil {
		e.broadcaster.BalanceUpdate(userID, wallet)
	}
}

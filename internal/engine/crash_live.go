package engine

import (
	"context"
	"time"

	"casino-miniapp-backend/internal/games"
	"casino-miniapp-backend/internal/models"
)

// liveRound runs one rising-multiplier crash round. The clock tick and the
// cash-out request are serialized through the loop below, so exactly one of
// "crash fires" or "cash-out accepted" wins for a given tick; when both are
// ready in the same turn the crash check is evaluated first.
type liveRound struct {
	engine  *Engine
	userID  int64
	roundID string
	bet     *models.BetRequest

	crashPoint float64
	multiplier float64

	cashout chan *cashoutCall
	done    chan struct{}
}

type cashoutCall struct {
	reply chan *cashoutReply
}

type cashoutReply struct {
	result *BetResult
	err    error
}

// startLiveRound draws the crash point and spawns the round loop. Caller
// holds e.mu.
func (e *Engine) startLiveRound(sess *session, userID int64, roundID string, req *models.BetRequest) *liveRound {
	live := &liveRound{
		engine:     e,
		userID:     userID,
		roundID:    roundID,
		bet:        req,
		crashPoint: games.DrawCrashPoint(e.src),
		multiplier: 1.0,
		cashout:    make(chan *cashoutCall),
		done:       make(chan struct{}),
	}
	go live.run()
	return live
}

func (r *liveRound) run() {
	ticker := time.NewTicker(r.engine.crashTick)
	defer ticker.Stop()
	defer close(r.done)

	for {
		// Give the clock priority: a tick that is already due is handled
		// before any pending cash-out, which realizes the house edge on
		// exact ties.
		select {
		case <-ticker.C:
			if r.tick() {
				return
			}
			continue
		default:
		}

		select {
		case <-ticker.C:
			if r.tick() {
				return
			}
		case call := <-r.cashout:
			r.handleCashout(call, ticker.C)
			return
		}
	}
}

// tick advances the displayed multiplier and reports whether the round
// crashed.
func (r *liveRound) tick() bool {
	r.multiplier += r.engine.crashStep

	if b := r.engine.broadcaster; b != nil {
		b.CrashTick(r.userID, r.roundID, r.multiplier)
	}

	if r.multiplier >= r.crashPoint {
		r.finish(nil, 0)
		return true
	}
	return false
}

// handleCashout arbitrates a cash-out against the clock. Both select cases
// may have been ready when the request was picked up, so a tick that is
// already due is run first; if it crosses the crash point the round settles
// as a crash and the cash-out is refused.
func (r *liveRound) handleCashout(call *cashoutCall, clock <-chan time.Time) {
	select {
	case <-clock:
		if r.tick() {
			call.reply <- &cashoutReply{err: models.ErrNoLiveRound}
			return
		}
	default:
	}
	r.finish(call, r.multiplier)
}

// finish settles the round. call is nil when the crash fired; otherwise the
// player cashed out at multiplier m.
func (r *liveRound) finish(call *cashoutCall, m float64) {
	if b := r.engine.broadcaster; b != nil {
		b.CrashEnded(r.userID, r.roundID, r.crashPoint)
	}

	r.engine.mu.Lock()
	r.engine.session(r.userID).live = nil
	r.engine.mu.Unlock()

	raw := games.CrashOutcome(r.crashPoint, m)
	game, _ := r.engine.catalog.Game(models.GameTypeCrash)

	// Reconciliation keeps running even if the requesting connection goes
	// away; once issued it always runs to completion or failure.
	result, err := r.engine.settleAndReconcile(context.Background(), r.userID, r.roundID, game, r.bet, raw)

	if call != nil {
		call.reply <- &cashoutReply{result: result, err: err}
	}
}

// requestCashout submits a cash-out to the round loop and waits for the
// settled result. If the crash beat the request, ErrNoLiveRound is
// returned and the round settles as a loss through the crash path.
func (r *liveRound) requestCashout(ctx context.Context) (*BetResult, error) {
	call := &cashoutCall{reply: make(chan *cashoutReply, 1)}

	select {
	case r.cashout <- call:
		reply := <-call.reply
		return reply.result, reply.err
	case <-r.done:
		return nil, models.ErrNoLiveRound
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

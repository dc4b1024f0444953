package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fintra/internal/logger"
)

// Snapshot is a full, ordered materialization of one user's transaction
// and budget limit collections, delivered whenever the underlying store
// changes.
type Snapshot struct {
	UserID       string
	Revision     string
	Transactions []Record
	Limits       []Limit
}

// Source delivers snapshots. Close releases the underlying subscription
// so no further recompute passes are triggered.
type Source interface {
	Snapshots() <-chan Snapshot
	Close()
}

// Store is the persistence writer the engine proposes results to.
// All writes are fire-and-forget from the engine's perspective: a failed
// write is logged and self-heals on the next pass, because every pass
// recomputes from the full authoritative data.
type Store interface {
	NotificationKeys(userID string, day time.Time) ([]string, error)
	AppendNotification(userID string, draft NotificationDraft) error
	UpdateLimitSpent(userID, limitID string, spent decimal.Decimal) error
}

// Pusher delivers best-effort push notifications. Errors are logged and
// otherwise ignored; persistence is authoritative.
type Pusher interface {
	Push(userID string, req PushRequest) error
}

// Engine runs one synchronous recompute pass per delivered snapshot:
// aggregate, evaluate, dispatch, then hand results to the store and
// pusher. Passes never overlap; the source coalesces bursts so the
// latest snapshot always wins.
type Engine struct {
	source Source
	store  Store
	pusher Pusher
	log    *zap.SugaredLogger
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock, used for dedup day boundaries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger overrides the engine's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine wired to the given collaborators.
func New(source Source, store Store, pusher Pusher, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		store:  store,
		pusher: pusher,
		log:    logger.Named("engine"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes snapshots until ctx is cancelled, then closes the
// source. Each snapshot is handled synchronously on this goroutine.
func (e *Engine) Run(ctx context.Context) {
	defer e.source.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-e.source.Snapshots():
			if !ok {
				return
			}
			e.Pass(snap)
		}
	}
}

// Pass runs one full recompute over a snapshot. It never fails: every
// error is logged and the pass continues, since stale cached values and
// missing notifications are recovered by the next pass.
func (e *Engine) Pass(snap Snapshot) {
	totals := Aggregate(snap.Transactions)
	eval := Evaluate(snap.Limits, totals.ExpenseByCategory)

	for _, id := range eval.InvalidLimitIDs {
		e.log.Warnw("skipping budget limit with non-positive amount",
			"user_id", snap.UserID, "limit_id", id)
	}

	for _, u := range eval.Updates {
		if err := e.store.UpdateLimitSpent(snap.UserID, u.LimitID, u.Spent); err != nil {
			e.log.Errorw("failed to persist current spent",
				"user_id", snap.UserID, "limit_id", u.LimitID, "error", err)
		}
	}

	now := e.now()
	existing, err := e.store.NotificationKeys(snap.UserID, now)
	if err != nil {
		// Dispatch with no known keys; the store's unique dedup index is
		// the second line of defense against duplicates.
		e.log.Errorw("failed to load notification keys",
			"user_id", snap.UserID, "error", err)
		existing = nil
	}

	out := Dispatch(eval.Events, existing, now)

	for _, draft := range out.ToPersist {
		if err := e.store.AppendNotification(snap.UserID, draft); err != nil {
			e.log.Errorw("failed to append notification",
				"user_id", snap.UserID, "dedup_key", draft.Key, "error", err)
		}
	}
	for _, req := range out.ToPush {
		if err := e.pusher.Push(snap.UserID, req); err != nil {
			e.log.Debugw("push delivery failed",
				"user_id", snap.UserID, "title", req.Title, "error", err)
		}
	}

	e.log.Debugw("recompute pass complete",
		"user_id", snap.UserID,
		"revision", snap.Revision,
		"transactions", len(snap.Transactions),
		"events", len(eval.Events),
		"persisted", len(out.ToPersist),
	)
}

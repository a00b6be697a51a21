// Package undo keeps a short-lived ledger of reversible actions so a
// destructive tool call (logging a set, deleting an exercise) can be
// rolled back from the client within a bounded window.
package undo

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long an entry stays restorable.
const DefaultTTL = 5 * time.Minute

// RestoreFunc reverses the recorded action.
type RestoreFunc func(ctx context.Context) error

// Entry is one restorable action.
type Entry struct {
	ActionID  string
	TurnID    string
	Label     string
	CreatedAt time.Time
	ExpiresAt time.Time

	restore RestoreFunc
}

var (
	ErrNotFound = errors.New("undo entry not found")
	ErrExpired  = errors.New("undo entry expired")
)

// Ledger is a thread-safe in-memory store of restorable actions.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

type LedgerOption func(*Ledger)

func WithTTL(ttl time.Duration) LedgerOption {
	return func(l *Ledger) {
		l.ttl = ttl
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func NewLedger(opts ...LedgerOption) *Ledger {
	l := &Ledger{
		entries: make(map[string]*Entry),
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register records a restorable action and returns its minted entry.
func (l *Ledger) Register(turnID, label string, restore RestoreFunc) *Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := &Entry{
		ActionID:  uuid.NewString(),
		TurnID:    turnID,
		Label:     label,
		CreatedAt: now,
		ExpiresAt: now.Add(l.ttl),
		restore:   restore,
	}
	l.entries[e.ActionID] = e
	log.Debug().
		Str("action_id", e.ActionID).
		Str("turn_id", turnID).
		Str("label", label).
		Msg("undo entry registered")
	return e
}

// Restore runs the entry's restore function and consumes the entry.
// Unknown ids return ErrNotFound, expired ones ErrExpired; in both
// cases nothing runs. A failed restore also consumes the entry so it
// cannot be retried against half-reverted state.
func (l *Ledger) Restore(ctx context.Context, actionID string) error {
	l.mu.Lock()
	e, ok := l.entries[actionID]
	if ok {
		delete(l.entries, actionID)
	}
	l.mu.Unlock()

	if !ok {
		return errors.Wrap(ErrNotFound, actionID)
	}
	if l.now().After(e.ExpiresAt) {
		return errors.Wrap(ErrExpired, actionID)
	}
	if e.restore == nil {
		return nil
	}
	if err := e.restore(ctx); err != nil {
		return errors.Wrapf(err, "could not restore action %s", actionID)
	}
	return nil
}

// Get returns a snapshot of a live entry without consuming it.
func (l *Ledger) Get(actionID string) (*Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[actionID]
	if !ok || l.now().After(e.ExpiresAt) {
		return nil, false
	}
	snapshot := *e
	snapshot.restore = nil
	return &snapshot, true
}

// Sweep drops expired entries and returns how many were removed.
func (l *Ledger) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for id, e := range l.entries {
		if now.After(e.ExpiresAt) {
			delete(l.entries, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included until the
// next sweep.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Run sweeps periodically until the context is cancelled.
func (l *Ledger) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				log.Debug().Int("removed", n).Msg("undo ledger swept")
			}
		}
	}
}

package undo

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_RegisterAndRestore(t *testing.T) {
	l := NewLedger()

	restored := false
	e := l.Register("turn-1", "Logged 10 Push-ups", func(ctx context.Context) error {
		restored = true
		return nil
	})
	require.NotEmpty(t, e.ActionID)
	assert.Equal(t, "turn-1", e.TurnID)

	require.NoError(t, l.Restore(context.Background(), e.ActionID))
	assert.True(t, restored)

	// Consumed: a second restore finds nothing.
	err := l.Restore(context.Background(), e.ActionID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLedger_UnknownAction(t *testing.T) {
	l := NewLedger()
	err := l.Restore(context.Background(), "no-such-id")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLedger_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := NewLedger(WithTTL(5*time.Minute), WithClock(clock))

	e := l.Register("turn-1", "Logged a set", func(ctx context.Context) error {
		t.Fatal("expired entry must not run")
		return nil
	})

	now = now.Add(6 * time.Minute)
	err := l.Restore(context.Background(), e.ActionID)
	assert.True(t, errors.Is(err, ErrExpired))

	// The failed restore still consumed it.
	_, ok := l.Get(e.ActionID)
	assert.False(t, ok)
}

func TestLedger_FailedRestoreIsConsumed(t *testing.T) {
	l := NewLedger()
	e := l.Register("turn-1", "x", func(ctx context.Context) error {
		return errors.New("store unavailable")
	})

	err := l.Restore(context.Background(), e.ActionID)
	require.Error(t, err)

	err = l.Restore(context.Background(), e.ActionID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLedger_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	l := NewLedger(WithTTL(time.Minute), WithClock(clock))

	l.Register("turn-1", "a", nil)
	now = now.Add(30 * time.Second)
	l.Register("turn-2", "b", nil)
	require.Equal(t, 2, l.Len())

	now = now.Add(45 * time.Second) // first expired, second still live
	assert.Equal(t, 1, l.Sweep())
	assert.Equal(t, 1, l.Len())
}

func TestLedger_GetDoesNotConsume(t *testing.T) {
	l := NewLedger()
	e := l.Register("turn-1", "Logged a set", nil)

	got, ok := l.Get(e.ActionID)
	require.True(t, ok)
	assert.Equal(t, "Logged a set", got.Label)

	_, ok = l.Get(e.ActionID)
	assert.True(t, ok)
}

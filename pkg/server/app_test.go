package server

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FinCast/internal/service/ratelimit"
	"FinCast/pkg/config"
	applogger "FinCast/pkg/logger"
)

func newTestApp(t *testing.T, limiter *ratelimit.Limiter) *App {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return New(cfg, applogger.NewWithWriter(io.Discard, "error"), nil, limiter)
}

func TestNewSchedulesLimiterPrune(t *testing.T) {
	a := newTestApp(t, ratelimit.New(1, 1))
	require.Len(t, a.chores, 1)
	assert.Equal(t, limiterIdle, a.chores[0].every)

	assert.Empty(t, newTestApp(t, nil).chores)
}

func TestEveryIgnoresNonPositiveInterval(t *testing.T) {
	a := newTestApp(t, nil)
	a.Every("noop", 0, func() int { return 0 })
	a.Every("noop", time.Second, nil)
	assert.Empty(t, a.chores)
}

func TestRunChoreTicksUntilCanceled(t *testing.T) {
	a := newTestApp(t, nil)
	var calls atomic.Int32
	a.Every("cache swept", 5*time.Millisecond, func() int { return int(calls.Add(1)) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.runChore(ctx, a.chores[0])
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("chore did not stop after cancel")
	}
}

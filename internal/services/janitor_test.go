package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitorRunOnce(t *testing.T) {
	j := NewJanitor(time.Hour)
	j.Register("ok", func(ctx context.Context) (int64, error) { return 3, nil })
	j.Register("broken", func(ctx context.Context) (int64, error) { return 0, errors.New("boom") })
	j.Register("idle", func(ctx context.Context) (int64, error) { return 0, nil })

	results := j.RunOnce(context.Background())
	assert.Equal(t, map[string]int64{"ok": 3, "idle": 0}, results)
}

func TestJanitorRunOnceStopsOnCancelledContext(t *testing.T) {
	j := NewJanitor(time.Hour)
	var calls int32
	j.Register("job", func(ctx context.Context) (int64, error) {
		atomic.AddInt32(&calls, 1)
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, j.RunOnce(ctx))
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestJanitorTriggerAndStop(t *testing.T) {
	j := NewJanitor(time.Hour)
	ran := make(chan struct{}, 4)
	j.Register("job", func(ctx context.Context) (int64, error) {
		ran <- struct{}{}
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		j.Start(ctx)
		close(done)
	}()

	j.Trigger()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered pass did not run")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestJanitorTriggerDoesNotBlock(t *testing.T) {
	j := NewJanitor(time.Hour)
	for i := 0; i < 10; i++ {
		j.Trigger()
	}
	assert.Len(t, j.triggerChan, 1)
}

func TestRegistryJanitorJobs(t *testing.T) {
	reg, _ := setupRegistry(t)
	results := reg.Janitor.RunOnce(context.Background())
	require.Contains(t, results, "sessions.sweep_expired")
	require.Contains(t, results, "subscriptions.expire_due")
	assert.Zero(t, results["sessions.sweep_expired"])
}

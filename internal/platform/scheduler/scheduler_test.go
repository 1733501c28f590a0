package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_InvalidSpec(t *testing.T) {
	t.Parallel()

	s := New(time.Second)
	err := s.Add("purge", "not a cron spec", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "purge")
}

// TestScheduler_RunsJob takes about a second: cron's shortest interval is one second.
func TestScheduler_RunsJob(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := New(time.Second)
	require.NoError(t, s.Add("count", "@every 1s", func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("failures are logged, not fatal")
	}))
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestRun_ContextHasTimeout(t *testing.T) {
	t.Parallel()

	s := New(50 * time.Millisecond)
	var deadline bool
	s.run("purge", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})
	assert.True(t, deadline)
}

func TestStop_CancelsRunningJobs(t *testing.T) {
	t.Parallel()

	s := New(time.Minute)
	s.cancel()

	var ctxErr error
	s.run("purge", func(ctx context.Context) error {
		ctxErr = ctx.Err()
		return nil
	})
	assert.ErrorIs(t, ctxErr, context.Canceled)
}

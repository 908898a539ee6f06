package extensions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHookManager_Execute(t *testing.T) {
	m := NewHookManager()
	var calls []string

	m.Register(HookAfterSnapshotCommit, func(ctx context.Context, data interface{}) error {
		calls = append(calls, "first:"+data.(HookData).Operation)
		return nil
	})
	m.Register(HookAfterSnapshotCommit, func(ctx context.Context, data interface{}) error {
		calls = append(calls, "second")
		return nil
	})

	require.NoError(t, m.Execute(context.Background(), HookAfterSnapshotCommit, HookData{Operation: "commit"}))
	assert.Equal(t, []string{"first:commit", "second"}, calls)
	assert.Equal(t, 2, m.Count(HookAfterSnapshotCommit))

	require.NoError(t, m.Execute(context.Background(), HookAfterNavigation, nil))
}

func TestHookManager_StopsAtFirstFailure(t *testing.T) {
	m := NewHookManager()
	boom := errors.New("boom")
	ran := false

	m.Register(HookBeforeSnapshotCommit, func(ctx context.Context, data interface{}) error { return boom })
	m.Register(HookBeforeSnapshotCommit, func(ctx context.Context, data interface{}) error {
		ran = true
		return nil
	})

	err := m.Execute(context.Background(), HookBeforeSnapshotCommit, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "before_snapshot_commit")
	assert.False(t, ran)
}

func TestHookManager_CancelledContext(t *testing.T) {
	m := NewHookManager()
	m.Register(HookAfterTimelineReset, func(ctx context.Context, data interface{}) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Execute(ctx, HookAfterTimelineReset, nil), context.Canceled)
}

func TestHookManager_Clear(t *testing.T) {
	m := NewHookManager()
	noop := func(ctx context.Context, data interface{}) error { return nil }
	m.Register(HookAfterNavigation, noop)
	m.Register(HookAfterTimelineReset, noop)

	m.Clear(HookAfterNavigation)
	assert.Equal(t, 0, m.Count(HookAfterNavigation))
	assert.Equal(t, 1, m.Count(HookAfterTimelineReset))

	m.ClearAll()
	assert.Equal(t, 0, m.Count(HookAfterTimelineReset))
}

func TestGuard_TripsAfterRepeatedFailures(t *testing.T) {
	calls := 0
	boom := errors.New("audit sink unavailable")
	hook := Guard(func(context.Context, interface{}) error {
		calls++
		return boom
	}, DefaultBreakerConfig("audit"), nil)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, hook(ctx, nil), boom)
	}
	assert.ErrorIs(t, hook(ctx, nil), ErrHookSuspended)
	assert.ErrorIs(t, hook(ctx, nil), ErrHookSuspended)
	assert.Equal(t, 3, calls)
}

func TestGuard_PassesThroughSuccess(t *testing.T) {
	calls := 0
	hook := Guard(func(context.Context, interface{}) error {
		calls++
		return nil
	}, DefaultBreakerConfig("audit"), nil)

	for i := 0; i < 10; i++ {
		require.NoError(t, hook(context.Background(), HookData{}))
	}
	assert.Equal(t, 10, calls)
}

func TestGuard_IgnoresCancellation(t *testing.T) {
	hook := Guard(func(ctx context.Context, _ interface{}) error {
		return ctx.Err()
	}, DefaultBreakerConfig("audit"), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, hook(ctx, nil), context.Canceled)
	}
}

package dlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) *Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	l, err := New(rdb)
	require.NoError(t, err)
	return l
}

func TestLocker_TryLockThenOccupied(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	h, err := l.TryLock(ctx, "res")
	require.NoError(t, err)
	require.NotNil(t, h)

	h2, err := l.TryLock(ctx, "res")
	require.NoError(t, err)
	require.Nil(t, h2)

	require.NoError(t, h.Unlock(ctx))

	h3, err := l.TryLock(ctx, "res")
	require.NoError(t, err)
	require.NotNil(t, h3)
}

func TestLocker_UnlockIsNotReentrant(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	h, err := l.TryLock(ctx, "res")
	require.NoError(t, err)
	require.NoError(t, h.Unlock(ctx))
	require.ErrorIs(t, h.Unlock(ctx), ErrNotLocked)
}

func TestLocker_Extend(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	h, err := l.TryLock(ctx, "res", WithExpiry(2*time.Second))
	require.NoError(t, err)
	require.NoError(t, h.Extend(ctx))
	require.NoError(t, h.Unlock(ctx))
}

func TestLocker_WithLockReleasesAfterFn(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	ran := false
	err := l.WithLock(ctx, "res", func(ctx context.Context) error {
		ran = true
		h2, err := l.TryLock(ctx, "res")
		require.NoError(t, err)
		require.Nil(t, h2) // held by the outer WithLock
		return nil
	})
	require.NoError(t, err)
	require.True(t, ran)

	h3, err := l.TryLock(ctx, "res")
	require.NoError(t, err)
	require.NotNil(t, h3)
}

func TestLocker_RejectsEmptyKey(t *testing.T) {
	l := newTestLocker(t)
	ctx := context.Background()

	_, err := l.TryLock(ctx, "")
	require.ErrorIs(t, err, ErrEmptyKey)

	_, err = l.Lock(ctx, "")
	require.ErrorIs(t, err, ErrEmptyKey)
}

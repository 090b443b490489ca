package guard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/corewall/cacheshield/pkg/dlock"
	"github.com/corewall/cacheshield/pkg/lockpool"
)

// ReadFunc reads the current cached value without acquiring any lock.
// found is false on a cache miss; err is only for a genuine I/O failure.
type ReadFunc func(ctx context.Context) (value []byte, found bool, err error)

// LoadFunc invokes the origin. See ErrLoaderReturnedNil for the (nil, nil)
// protocol violation.
type LoadFunc func(ctx context.Context) (value []byte, err error)

// WriteFunc writes a freshly loaded value through to the cache. Its failure
// is logged and swallowed: a write-through miss degrades future reads to
// another load, it does not fail the one in hand.
type WriteFunc func(ctx context.Context, value []byte) error

// Guard implements the triple-check Breakdown Guard (C5, §4.5): for a single
// hot key, N concurrent callers that all observe a miss invoke the origin
// loader exactly once.
//
// Grounded on xcache.loader's own combination of singleflight and an
// optional distributed lock (loader_impl.go), generalized to this module's
// two explicit lock tiers: golang.org/x/sync/singleflight collapses
// concurrent callers within one process before either lock tier is even
// touched (the "Sync strategy" layering SPEC_FULL.md's domain stack calls
// out), and the local (lockpool) + distributed (dlock) tiers then protect
// against callers singleflight cannot see: other goroutines that raced in
// before the in-flight call registered, and other processes entirely.
type Guard struct {
	local *lockpool.Pool
	dist  *dlock.Locker // nil disables the distributed tier
	sf    singleflight.Group
	opts  options
}

// New builds a Guard. dist may be nil: callers that never request a
// distributed lock (distributedLock=false on their CacheOperation) get a
// Guard that only ever uses its local tier.
func New(local *lockpool.Pool, dist *dlock.Locker, opts ...Option) *Guard {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Guard{local: local, dist: dist, opts: o}
}

// Load runs the triple-check protocol for (cacheName, key):
//
//  1. read without any lock;
//  2. acquire the local lock, re-read;
//  3. if useDistLock and a distributed locker is configured, acquire it
//     under lockName, re-read;
//  4. on a third miss, invoke load exactly once, write-through via write,
//     and return the freshly loaded value.
//
// Locks release in reverse acquisition order (distributed, then local),
// unconditionally, regardless of how the call exits.
func (g *Guard) Load(
	ctx context.Context,
	cacheName, key string,
	useDistLock bool,
	lockName string,
	read ReadFunc,
	load LoadFunc,
	write WriteFunc,
) ([]byte, error) {
	if value, found, err := read(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	} else if found {
		return value, nil
	}

	sfKey := cacheName + "\x00" + key
	v, err, _ := g.sf.Do(sfKey, func() (any, error) {
		return g.loadLocked(ctx, cacheName, key, useDistLock, lockName, read, load, write)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (g *Guard) loadLocked(
	ctx context.Context,
	cacheName, key string,
	useDistLock bool,
	lockName string,
	read ReadFunc,
	load LoadFunc,
	write WriteFunc,
) ([]byte, error) {
	poolKey := cacheName + "\x00" + key

	localHandle, err := g.local.AcquireTimeout(ctx, poolKey, g.opts.localAcquireTimeout)
	if err != nil {
		if isBoundedLockFailure(err) {
			g.opts.logger.Warn("guard: local lock not acquired within bound, loading without write-through",
				"cache", cacheName, "key", key, "error", err)
			return g.loadWithoutWriteThrough(ctx, load)
		}
		return nil, err
	}
	defer func() { _ = localHandle.Release() }()

	if value, found, err := read(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
	} else if found {
		return value, nil
	}

	if useDistLock && g.dist != nil {
		if lockName == "" {
			lockName = poolKey
		}
		distHandle, err := g.dist.Lock(ctx, lockName, g.opts.distLockOpts...)
		if err != nil {
			if isBoundedLockFailure(err) {
				g.opts.logger.Warn("guard: distributed lock not acquired within bound, loading without write-through",
					"cache", cacheName, "key", key, "error", err)
				return g.loadWithoutWriteThrough(ctx, load)
			}
			return nil, err
		}
		defer func() { _ = distHandle.Unlock(detach(ctx)) }()

		if value, found, err := read(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrReadFailed, err)
		} else if found {
			return value, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrLoaderReturnedNil
	}

	if err := write(ctx, value); err != nil {
		g.opts.logger.Warn("guard: write-through failed after load",
			"cache", cacheName, "key", key, "error", err)
	}
	return value, nil
}

// loadWithoutWriteThrough is §7's LockTimeout path: neither lock tier was
// acquired within its bound, so the call falls through to the origin loader
// once and returns its value directly, skipping the write that would
// otherwise populate the cache. Skipping the write is deliberate: a caller
// that couldn't get the lock is racing others in the same state, and
// letting all of them write through would just trade a stampede on the
// origin for one on Redis.
func (g *Guard) loadWithoutWriteThrough(ctx context.Context, load LoadFunc) ([]byte, error) {
	value, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, ErrLoaderReturnedNil
	}
	return value, nil
}

// detach strips cancellation from ctx so an unlock still runs after the
// caller's own context is done; mirrors dlock.detach / xcache's
// detachedCtx.
func detach(ctx context.Context) context.Context {
	return detachedCtx{parent: ctx}
}

type detachedCtx struct{ parent context.Context }

func (detachedCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedCtx) Done() <-chan struct{}       { return nil }
func (detachedCtx) Err() error                  { return nil }
func (d detachedCtx) Value(key any) any         { return d.parent.Value(key) }

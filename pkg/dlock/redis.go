package dlock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redsync/redsync/v4"
	goredis "github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

// Handle represents one successful lock acquisition. Every TryLock/Lock
// call produces a new Handle with a fresh internal identity, so operations
// from one acquisition can never interfere with another.
type Handle interface {
	// Unlock releases the lock. Returns ErrNotLocked if the lock already
	// expired or was taken over by another acquisition.
	Unlock(ctx context.Context) error

	// Extend renews the lock's lease for another Expiry period. Returns
	// ErrNotLocked if ownership was lost, ErrExtendFailed if the renewal
	// itself failed but ownership may still hold.
	Extend(ctx context.Context) error

	// Key returns the fully-prefixed lock name.
	Key() string
}

// Locker is a distributed lock factory backed by Redis via redsync.
type Locker struct {
	rs     *redsync.Redsync
	client redis.UniversalClient
}

// New builds a Locker. Single client -> plain Redis lock; multiple clients
// against independent Redis instances -> Redlock requiring a quorum.
func New(clients ...redis.UniversalClient) (*Locker, error) {
	if len(clients) == 0 {
		return nil, errors.New("dlock: at least one redis client required")
	}
	pools := make([]redsync.Pool, len(clients))
	for i, c := range clients {
		pools[i] = goredis.NewPool(c)
	}
	return &Locker{rs: redsync.New(pools...), client: clients[0]}, nil
}

func (l *Locker) newMutex(key string, opts ...LockOption) (*redsync.Mutex, string) {
	o := defaultLockOptions()
	for _, fn := range opts {
		fn(o)
	}
	fullKey := o.keyPrefix + key
	base, max := o.retryBaseDelay, o.retryMaxDelay
	return l.rs.NewMutex(fullKey,
		redsync.WithExpiry(o.expiry),
		redsync.WithTries(o.tries),
		redsync.WithRetryDelayFunc(func(tries int) time.Duration {
			return backoffWithJitter(tries, base, max)
		}),
	), fullKey
}

// TryLock attempts to acquire the lock without blocking. A nil Handle and
// nil error means the lock is held by someone else.
func (l *Locker) TryLock(ctx context.Context, key string, opts ...LockOption) (Handle, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	mutex, fullKey := l.newMutex(key, append(opts, WithTries(1))...)
	if err := mutex.TryLockContext(ctx); err != nil {
		return l.classifyAcquireErr(err)
	}
	return &handle{mutex: mutex, key: fullKey}, nil
}

// Lock blocks, retrying per the configured tries, until the lock is
// acquired, ctx is done, or retries are exhausted.
func (l *Locker) Lock(ctx context.Context, key string, opts ...LockOption) (Handle, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	mutex, fullKey := l.newMutex(key, opts...)
	if err := mutex.LockContext(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrLockFailed, err)
	}
	return &handle{mutex: mutex, key: fullKey}, nil
}

func (l *Locker) classifyAcquireErr(err error) (Handle, error) {
	var errTaken *redsync.ErrTaken
	if errors.As(err, &errTaken) {
		return nil, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrLockFailed, err)
}

// WithLock runs fn while holding key, releasing it unconditionally
// afterward regardless of fn's outcome. The lock is acquired with Lock, so
// WithLock waits and retries like Lock does. fn is not invoked if the lock
// could not be acquired; in that case WithLock returns Lock's error
// (ErrLockFailed once retries are exhausted, or ctx's own error).
func (l *Locker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error, opts ...LockOption) error {
	h, err := l.Lock(ctx, key, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = h.Unlock(detach(ctx)) }()
	return fn(ctx)
}

type handle struct {
	mutex *redsync.Mutex
	key   string
}

func (h *handle) Unlock(ctx context.Context) error {
	ok, err := h.mutex.UnlockContext(ctx)
	if err != nil {
		if errors.Is(err, redsync.ErrExtendFailed) {
			return ErrExtendFailed
		}
		return ErrNotLocked
	}
	if !ok {
		return ErrNotLocked
	}
	return nil
}

func (h *handle) Extend(ctx context.Context) error {
	ok, err := h.mutex.ExtendContext(ctx)
	if err != nil {
		return ErrExtendFailed
	}
	if !ok {
		return ErrNotLocked
	}
	return nil
}

func (h *handle) Key() string { return h.key }

// detach strips cancellation/deadline from ctx while preserving its values,
// so cleanup (here: Unlock) still runs to completion after the caller's
// context was canceled. Grounded on xcache's detachedCtx pattern.
func detach(ctx context.Context) context.Context {
	return detachedCtx{parent: ctx}
}

type detachedCtx struct {
	parent context.Context
}

func (detachedCtx) Deadline() (time.Time, bool) { return time.Time{}, false }
func (detachedCtx) Done() <-chan struct{}        { return nil }
func (detachedCtx) Err() error                   { return nil }
func (d detachedCtx) Value(key any) any           { return d.parent.Value(key) }

var _ Handle = (*handle)(nil)

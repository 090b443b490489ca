package registry

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/corewall/cacheshield/pkg/lockpool"
)

// WildcardKey is the key an evict-registry normalizes a blank key to,
// supporting allEntries=true evictions (§4.9).
const WildcardKey = "*"

// LoaderFunc is the engine's view of the out-of-scope origin Loader (§6):
// it runs the target method and returns either a value, the cached-null
// signal (isNull), or an error. Encoding to bytes is the caller's
// responsibility (via a codec.Codec) before building a CachedInvocation.
type LoaderFunc func(ctx context.Context) (value []byte, isNull bool, err error)

// CachedInvocation is the origin loader descriptor (§3): everything the
// Breakdown Guard (C5) and Pre-Refresh Executor (C6) need to redrive a load
// for a given (cacheName, key) without the caller re-supplying it.
type CachedInvocation struct {
	CacheName  string
	Key        string
	ReturnType string
	Loader     LoaderFunc
}

// Registry is the bounded (cacheName, key) -> CachedInvocation directory
// (C9), plus the per-key local lock pool every invocation under it shares.
//
// Grounded on xlru.Cache's wrapping of hashicorp/golang-lru/v2/expirable for
// bounded, TTL-evicting storage, and on lockpool (itself grounded on
// xkeylock) for the per-key lock provider §4.9 names as this component's
// second responsibility.
type Registry struct {
	opts  options
	cache *lru.LRU[string, *CachedInvocation]
	locks *lockpool.Pool
}

// New builds a cacheable-invocation Registry: Put rejects a blank key.
func New(opts ...Option) *Registry {
	return newRegistry(false, opts...)
}

// NewEvict builds an evict-registry Registry: Put normalizes a blank key
// to WildcardKey instead of rejecting it, supporting allEntries=true.
func NewEvict(opts ...Option) *Registry {
	return newRegistry(true, opts...)
}

func newRegistry(wildcard bool, opts ...Option) *Registry {
	o := defaultOptions()
	o.wildcard = wildcard
	for _, fn := range opts {
		fn(&o)
	}
	return &Registry{
		opts:  o,
		cache: lru.NewLRU[string, *CachedInvocation](o.maxSize, nil, o.idleTTL),
		locks: lockpool.New(
			lockpool.WithMaxActive(o.lockMaxActive),
			lockpool.WithMaxInactive(o.lockMaxInactive),
		),
	}
}

func compositeKey(cacheName, key string) string {
	return cacheName + "\x00" + key
}

// Put stores inv, keyed by (inv.CacheName, inv.Key). On the cacheable
// registry a blank key is rejected (ErrEmptyKey); on an evict registry it is
// normalized to WildcardKey.
func (r *Registry) Put(inv *CachedInvocation) error {
	if inv == nil {
		return ErrNilInvocation
	}
	if inv.CacheName == "" {
		return ErrEmptyCacheName
	}
	key := inv.Key
	if key == "" {
		if !r.opts.wildcard {
			return ErrEmptyKey
		}
		key = WildcardKey
	}
	stored := *inv
	stored.Key = key
	r.cache.Add(compositeKey(inv.CacheName, key), &stored)
	return nil
}

// Get returns the CachedInvocation stored for (cacheName, key), if present
// and not yet idle-evicted.
func (r *Registry) Get(cacheName, key string) (*CachedInvocation, bool) {
	k := compositeKey(cacheName, key)
	inv, ok := r.cache.Get(k)
	if ok {
		// expirable.LRU's Get leaves the expiry alone; re-adding restarts
		// it, so the idle TTL counts from the last use.
		r.cache.Add(k, inv)
	}
	return inv, ok
}

// Evict removes the entry for (cacheName, key), if any.
func (r *Registry) Evict(cacheName, key string) {
	r.cache.Remove(compositeKey(cacheName, key))
}

// LockFor acquires this registry's per-key local lock for (cacheName, key),
// blocking until acquired or ctx is done. Every CachedInvocation sharing a
// key shares the same lock, which is exactly what the Breakdown Guard (C5)
// needs for its local-lock tier.
func (r *Registry) LockFor(ctx context.Context, cacheName, key string) (lockpool.Handle, error) {
	return r.locks.Acquire(ctx, compositeKey(cacheName, key))
}

// TryLockFor is the non-blocking counterpart of LockFor.
func (r *Registry) TryLockFor(cacheName, key string) (lockpool.Handle, error) {
	return r.locks.TryAcquire(compositeKey(cacheName, key))
}

// LockPool returns the lock pool backing LockFor/TryLockFor. The Breakdown
// Guard (C5) takes this directly as its local tier so a lock and the
// CachedInvocation it protects are always evicted from the same pool
// (§4.9, §3 LockReference/Ownership): there is exactly one lock directory
// per cache, not one for the registry and a second, independent one for
// the Guard.
func (r *Registry) LockPool() *lockpool.Pool {
	return r.locks
}

// Len reports how many (cacheName, key) entries are currently stored.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Close shuts down the registry's lock pool. Already-held locks remain
// valid and must still be released by their holders.
func (r *Registry) Close() error {
	return r.locks.Close()
}

// IdleTTL returns the configured invocationMaxIdleTimeMs.
func (r *Registry) IdleTTL() time.Duration {
	return r.opts.idleTTL
}

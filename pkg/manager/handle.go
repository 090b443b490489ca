package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/clock"
	"github.com/corewall/cacheshield/pkg/codec"
	"github.com/corewall/cacheshield/pkg/envelope"
	"github.com/corewall/cacheshield/pkg/events"
	"github.com/corewall/cacheshield/pkg/guard"
	"github.com/corewall/cacheshield/pkg/localcache"
	"github.com/corewall/cacheshield/pkg/operation"
	"github.com/corewall/cacheshield/pkg/registry"
	"github.com/corewall/cacheshield/pkg/strategy"
	"github.com/corewall/cacheshield/pkg/writer"
)

// Loader re-invokes the origin for a miss. It is the domain-level
// counterpart of guard.LoadFunc: it works in domain values instead of
// bytes, with CacheHandle handling the Codec round-trip.
//
// A Loader is never asked to signal "no value" here: that case goes
// through PutNull directly, since the Breakdown Guard's loader contract
// treats a nil result as a protocol violation (§4.5). Combining sync/
// distributed/internal locking with null-value caching on the same read
// is out of scope for the guarded path; callers needing both should look
// up, then call PutNull explicitly on a confirmed-absent result.
type Loader func(ctx context.Context) (value any, err error)

// CacheHandle is one cache's fully wired pipeline (§4.10): its own writer
// chain, bloom state, lock pool, invocation registry partition, and
// strategy chain.
type CacheHandle struct {
	name string
	op   *operation.CacheOperation

	codec      codec.Codec
	publisher  events.Publisher
	registry   *registry.Registry
	guard      *guard.Guard
	filter     *bloom.Filter
	local      *localcache.Cache // nil disables the in-process near-cache
	chain      *writer.Chain
	strategies *strategy.Chain
	clk        clock.Clock
	logger     *slog.Logger
}

// Name returns the cache name this handle serves.
func (h *CacheHandle) Name() string { return h.name }

// Get runs the full read path (§2): Writer.GET (Bloom, SyncLock, Redis),
// then the Fetch Strategy Chain (pre-refresh), decoding into out via the
// configured Codec. On a Redis miss with a non-nil load, load is called and
// its value is written through and decoded into out. found is false on a
// bloom rejection, a forced SYNC pre-refresh miss, or a Redis miss with a
// nil load; isNull is true only for a decoded cached-null entry, in which
// case out is left untouched.
func (h *CacheHandle) Get(ctx context.Context, key string, out any, load Loader) (found bool, isNull bool, err error) {
	if h.local != nil {
		if raw, ok := h.local.Get(localCacheKey(h.name, key)); ok {
			env, err := envelope.Decode(raw)
			if err == nil {
				if env.IsNull {
					return true, true, nil
				}
				if err := h.codec.Decode(env.Value, out); err == nil {
					h.publisher.Publish(ctx, events.New(events.CacheHit, h.name, key, "local", nil))
					return true, false, nil
				}
			}
		}
	}

	if load != nil {
		_ = h.registry.Put(&registry.CachedInvocation{
			CacheName:  h.name,
			Key:        key,
			ReturnType: h.op.ReturnType,
			Loader: func(ctx context.Context) ([]byte, bool, error) {
				value, err := load(ctx)
				if err != nil {
					return nil, false, err
				}
				data, err := h.codec.Encode(value)
				if err != nil {
					return nil, false, err
				}
				return data, false, nil
			},
		})
	}

	req := &writer.Request{
		Action: writer.OpGet, CacheName: h.name, Key: key, CacheOp: h.op,
		ReturnType: h.op.ReturnType,
		Load:       h.guardLoad(load),
		WriteThrough: func(ctx context.Context, value []byte, isNull bool) error {
			return h.putBytes(ctx, key, value, isNull)
		},
	}

	res, err := h.chain.Handle(ctx, req)
	if err != nil {
		if errors.Is(err, guard.ErrLoaderReturnedNil) {
			return false, false, err
		}
		return false, false, err
	}
	if !res.Found || res.Envelope == nil {
		h.publisher.Publish(ctx, events.New(events.CacheMiss, h.name, key, "", nil))
		if load == nil || res.Rejected {
			return false, false, nil
		}
		data, err := h.guardLoad(load)(ctx)
		if err != nil {
			return false, false, err
		}
		if err := h.putBytes(ctx, key, data, false); err != nil {
			return false, false, err
		}
		if err := h.codec.Decode(data, out); err != nil {
			return false, false, fmt.Errorf("manager: decoding loaded value for %s/%s: %w", h.name, key, err)
		}
		return true, false, nil
	}

	fctx := &strategy.Context{CacheName: h.name, Key: key, Op: h.op, Value: res.Envelope}
	if err := h.strategies.Apply(ctx, h.op, fctx); err != nil {
		return false, false, err
	}
	if fctx.ForceMiss {
		return false, false, nil
	}

	h.populateLocal(key, fctx.Value)

	if fctx.Value.IsNull {
		return true, true, nil
	}
	if err := h.codec.Decode(fctx.Value.Value, out); err != nil {
		return false, false, fmt.Errorf("manager: decoding cached value for %s/%s: %w", h.name, key, err)
	}
	h.publisher.Publish(ctx, events.New(events.CacheHit, h.name, key, "", nil))
	return true, false, nil
}

func (h *CacheHandle) guardLoad(load Loader) guard.LoadFunc {
	if load == nil {
		return nil
	}
	return func(ctx context.Context) ([]byte, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return h.codec.Encode(value)
	}
}

// Put writes value for key through the full PUT pipeline (Bloom add, TTL,
// NullValue, ActualCache).
func (h *CacheHandle) Put(ctx context.Context, key string, value any) error {
	data, err := h.codec.Encode(value)
	if err != nil {
		return err
	}
	return h.putBytes(ctx, key, data, false)
}

// PutNull caches the null marker for key, subject to CacheOp.CacheNullValues
// (a no-op if disabled, per §4.6).
func (h *CacheHandle) PutNull(ctx context.Context, key string) error {
	return h.putBytes(ctx, key, nil, true)
}

// PutIfAbsent writes value for key only if key is not already present.
func (h *CacheHandle) PutIfAbsent(ctx context.Context, key string, value any) (bool, error) {
	data, err := h.codec.Encode(value)
	if err != nil {
		return false, err
	}
	res, err := h.chain.Handle(ctx, &writer.Request{
		Action: writer.OpPutIfAbsent, CacheName: h.name, Key: key, CacheOp: h.op,
		Value: data, ReturnType: h.op.ReturnType,
	})
	if err != nil {
		return false, err
	}
	if res.Found {
		h.invalidateLocal(key)
	}
	return res.Found, nil
}

// Evict deletes key.
func (h *CacheHandle) Evict(ctx context.Context, key string) error {
	_, err := h.chain.Handle(ctx, &writer.Request{
		Action: writer.OpEvict, CacheName: h.name, Key: key, CacheOp: h.op,
	})
	if err == nil {
		h.registry.Evict(h.name, key)
		h.invalidateLocal(key)
	}
	return err
}

// Clean deletes key (allEntries=false) or every entry in this cache
// (allEntries=true).
func (h *CacheHandle) Clean(ctx context.Context, key string, allEntries bool) error {
	_, err := h.chain.Handle(ctx, &writer.Request{
		Action: writer.OpClean, CacheName: h.name, Key: key, CacheOp: h.op, AllEntries: allEntries,
	})
	if err == nil {
		if allEntries {
			h.registry.Evict(h.name, registry.WildcardKey)
			if h.local != nil {
				h.local.Del(localCacheKey(h.name, registry.WildcardKey))
			}
		} else {
			h.registry.Evict(h.name, key)
			h.invalidateLocal(key)
		}
	}
	return err
}

func (h *CacheHandle) putBytes(ctx context.Context, key string, value []byte, isNull bool) error {
	_, err := h.chain.Handle(ctx, &writer.Request{
		Action: writer.OpPut, CacheName: h.name, Key: key, CacheOp: h.op,
		Value: value, IsNull: isNull, ReturnType: h.op.ReturnType,
	})
	if err == nil {
		h.invalidateLocal(key)
	}
	return err
}

// localCacheKey derives the near-cache key for (cacheName, key), matching
// envelope.RenderKey so a Redis key and its near-cache entry stay
// correlated in logs.
func localCacheKey(cacheName, key string) string {
	k, err := envelope.RenderKey(cacheName, key)
	if err != nil {
		return cacheName + "::" + key
	}
	return k
}

// populateLocal mirrors a Redis hit into the near-cache so the next Get for
// this key never reaches Redis. Skipped for an eternal entry's TTL
// computation edge case only in that Eternal maps to no local expiry.
func (h *CacheHandle) populateLocal(key string, env *envelope.Envelope) {
	if h.local == nil {
		return
	}
	data, err := envelope.Encode(env)
	if err != nil {
		return
	}
	var ttl time.Duration
	if env.TTL != envelope.Eternal {
		ttl = time.Duration(env.TTL) * time.Second
	}
	h.local.Set(localCacheKey(h.name, key), data, ttl)
}

func (h *CacheHandle) invalidateLocal(key string) {
	if h.local != nil {
		h.local.Del(localCacheKey(h.name, key))
	}
}

// refresh is the PreRefresh strategy's RefreshFunc for this cache: it
// resolves the last-known CachedInvocation from the registry and re-loads
// it under the same Breakdown Guard the guarded GET path uses (§4.8), so
// refreshes of the same hot key never hit the origin concurrently.
//
// read always reports a miss: a pre-refresh is only ever triggered because
// the entry is still present but aging, so the point is to force a fresh
// load, not to let the guard's own "already cached" short-circuit skip it.
// Within one process, the guard's singleflight collapses concurrent
// refreshes of the same key into a single origin call whose result every
// other caller replays. Across processes, the lock tiers only serialize:
// since read always misses, each process that gets the lock in turn loads
// once more.
func (h *CacheHandle) refresh(ctx context.Context, cacheName, key string) error {
	inv, ok := h.registry.Get(cacheName, key)
	if !ok {
		return ErrNoInvocation
	}

	var loadedNull bool
	read := func(context.Context) ([]byte, bool, error) { return nil, false, nil }
	load := func(ctx context.Context) ([]byte, error) {
		value, isNull, err := inv.Loader(ctx)
		if err != nil {
			return nil, err
		}
		loadedNull = isNull
		if isNull {
			return []byte{}, nil
		}
		return value, nil
	}
	write := func(ctx context.Context, value []byte) error {
		if loadedNull {
			return h.putBytes(ctx, key, nil, true)
		}
		return h.putBytes(ctx, key, value, false)
	}

	_, err := h.guard.Load(ctx, cacheName, key, h.op.DistributedLock, h.op.DistributedLockName, read, load, write)
	return err
}

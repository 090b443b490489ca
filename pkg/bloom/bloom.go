package bloom

import (
	"context"

	"github.com/corewall/cacheshield/pkg/rediface"
)

// Filter is the hierarchical bloom filter consulted before any origin load.
type Filter struct {
	opts   options
	local  *localTier
	remote *remoteTier
}

// New builds a Filter backed by client for its remote tier. A nil client is
// valid: the filter then operates local-only, which is useful for tests and
// for single-instance deployments that accept per-process filter state.
func New(client rediface.Client, opts ...Option) (*Filter, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	f := &Filter{
		opts:  o,
		local: newLocalTier(o.bitSize),
	}
	if client != nil {
		f.remote = newRemoteTier(client, o.keyPrefix)
	}
	return f, nil
}

// Add marks key as present for cacheName in both tiers. A remote-tier
// failure is logged and swallowed: the local tier already has the bit set,
// so MightContain stays correct for this process; other processes will only
// miss the optimization, never correctness, until the remote write is
// retried by a future Add.
func (f *Filter) Add(ctx context.Context, cacheName, key string) error {
	if cacheName == "" {
		return ErrEmptyCacheName
	}
	if key == "" {
		return ErrEmptyKey
	}

	pos := positions(key, f.opts.hashFunctions, f.opts.bitSize)
	f.local.add(cacheName, pos)

	if f.remote == nil {
		return nil
	}
	if err := f.remote.add(ctx, cacheName, pos); err != nil {
		f.opts.logger.Warn("bloom: remote add failed, local tier still warm",
			"cache", cacheName, "error", err)
		return nil
	}
	return nil
}

// MightContain reports whether key may have been Add-ed to cacheName. It
// never returns false negatives and fails open (returns true) on any
// internal error, per the package contract.
func (f *Filter) MightContain(ctx context.Context, cacheName, key string) bool {
	if cacheName == "" || key == "" {
		return true
	}

	pos := positions(key, f.opts.hashFunctions, f.opts.bitSize)
	if f.local.mightContain(cacheName, pos) {
		return true
	}
	if f.remote == nil {
		return false
	}

	hit, err := f.remote.mightContain(ctx, cacheName, pos)
	if err != nil {
		f.opts.logger.Warn("bloom: remote check failed, failing open",
			"cache", cacheName, "error", err)
		return true
	}
	if hit {
		f.local.add(cacheName, pos) // warm local so next lookup skips Redis
	}
	return hit
}

// Clear resets both tiers for cacheName, forgetting every key previously
// Add-ed under it.
func (f *Filter) Clear(ctx context.Context, cacheName string) error {
	if cacheName == "" {
		return ErrEmptyCacheName
	}

	f.local.clear(cacheName)
	if f.remote == nil {
		return nil
	}
	return f.remote.clearCache(ctx, cacheName)
}

package manager

import (
	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/codec"
	"github.com/corewall/cacheshield/pkg/events"
	"github.com/corewall/cacheshield/pkg/localcache"
	"github.com/corewall/cacheshield/pkg/operation"
	"github.com/corewall/cacheshield/pkg/registry"
	"github.com/corewall/cacheshield/pkg/strategy"
)

// PerCacheConfig is one entry of the configuration table the Manager
// initializes handles from lazily (§4.10). Op carries the per-cache TTL
// and protection flags; the remaining fields shadow package-level
// defaults the Manager was built with.
type PerCacheConfig struct {
	Op *operation.CacheOperation

	BloomOpts []bloom.Option

	// RegistryOpts configures the Invocation Registry (C9), including the
	// bounds of the per-key lock pool it shares with the Breakdown Guard's
	// local tier (§4.9).
	RegistryOpts []registry.Option
	Publisher    events.Publisher
	Strategies []strategy.Strategy // registered as named custom strategies

	// Codec defaults to codec.JSON{} when nil.
	Codec codec.Codec

	// LocalCache, if set, is consulted before the writer chain on Get and
	// populated from a Redis hit, absorbing the hottest keys before they
	// ever reach the protections downstream. Shared across caches if the
	// same *localcache.Cache is passed to more than one PerCacheConfig.
	LocalCache *localcache.Cache
}

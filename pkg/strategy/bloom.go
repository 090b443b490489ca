package strategy

import (
	"context"

	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/operation"
)

// BloomFilter is the penetration-defense strategy (§4.2, §4.7): on a cache
// miss, it consults the two-tier bloom filter and marks the context
// possiblePenetration on a negative, so the caller skips the origin load
// instead of hammering it for a key that provably was never cached.
type BloomFilter struct {
	filter *bloom.Filter
}

// NewBloomFilter wraps filter as a Strategy.
func NewBloomFilter(filter *bloom.Filter) *BloomFilter {
	return &BloomFilter{filter: filter}
}

func (*BloomFilter) Name() string     { return "bloom" }
func (*BloomFilter) Priority() int    { return 0 }
func (b *BloomFilter) AppliesTo(op *operation.CacheOperation) bool {
	return op.UseBloomFilter
}

func (b *BloomFilter) Apply(ctx context.Context, fctx *Context) error {
	if fctx.Value != nil {
		return nil // already a hit, nothing to gate
	}
	if !b.filter.MightContain(ctx, fctx.CacheName, fctx.Key) {
		fctx.PossiblePenetration = true
		fctx.ForceMiss = true
	}
	return nil
}

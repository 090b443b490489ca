package strategy

import (
	"context"
	"sort"
	"sync"

	"github.com/corewall/cacheshield/pkg/operation"
)

// Chain compiles and caches per-operation fetch strategy chains (§4.7).
// Composition is a pure function of the relevant CacheOperation fields, so
// the compiled slice is cached by a signature of those fields rather than
// rebuilt on every read.
type Chain struct {
	mu     sync.RWMutex
	custom map[string]Strategy
	compiled map[string][]Strategy

	bloom      Strategy // nil if no bloom strategy is wired
	preRefresh Strategy // nil if no pre-refresh strategy is wired
}

// NewChain builds a Chain. bloom and preRefresh may be nil if the Cache
// Manager never wires those concerns for this cache.
func NewChain(bloom, preRefresh Strategy) *Chain {
	return &Chain{
		custom:   make(map[string]Strategy),
		compiled: make(map[string][]Strategy),
		bloom:    bloom,
		preRefresh: preRefresh,
	}
}

// Register adds a named custom strategy (§4.7 "Custom"), selectable via
// CacheOperation.FetchStrategy. Registering after chains have already been
// compiled for that name has no effect on already-cached entries; register
// all custom strategies before serving traffic.
func (c *Chain) Register(s Strategy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.custom[s.Name()] = s
}

func (c *Chain) signature(op *operation.CacheOperation) string {
	return string(op.FetchStrategy) + "|" +
		boolChar(op.UseBloomFilter) + "|" +
		boolChar(op.EnablePreRefresh) + "|" +
		string(op.PreRefreshMode)
}

func boolChar(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// compile builds the ordered strategy list for op: any applicable bloom
// and pre-refresh strategies, an explicitly named custom strategy if
// requested, sorted ascending by Priority, with Simple always appended as
// the terminal fallback.
func (c *Chain) compile(op *operation.CacheOperation) []Strategy {
	var chosen []Strategy
	if c.bloom != nil && c.bloom.AppliesTo(op) {
		chosen = append(chosen, c.bloom)
	}
	if c.preRefresh != nil && c.preRefresh.AppliesTo(op) {
		chosen = append(chosen, c.preRefresh)
	}
	if op.FetchStrategy != operation.FetchAuto && op.FetchStrategy != operation.FetchSimple {
		c.mu.RLock()
		s, ok := c.custom[string(op.FetchStrategy)]
		c.mu.RUnlock()
		if ok {
			chosen = append(chosen, s)
		}
	}

	sort.SliceStable(chosen, func(i, j int) bool {
		return chosen[i].Priority() < chosen[j].Priority()
	})
	return append(chosen, Simple{})
}

// Build returns the compiled chain for op, computing and caching it on
// first use for this op's signature.
func (c *Chain) Build(op *operation.CacheOperation) []Strategy {
	sig := c.signature(op)

	c.mu.RLock()
	cached, ok := c.compiled[sig]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	compiled := c.compile(op)

	c.mu.Lock()
	c.compiled[sig] = compiled
	c.mu.Unlock()
	return compiled
}

// Apply runs the compiled chain for op against fctx, stopping early if a
// strategy sets ForceMiss (there is nothing further for a later strategy
// to contribute once the read is going to be reported as a miss).
func (c *Chain) Apply(ctx context.Context, op *operation.CacheOperation, fctx *Context) error {
	for _, s := range c.Build(op) {
		if err := s.Apply(ctx, fctx); err != nil {
			return err
		}
		if fctx.ForceMiss {
			return nil
		}
	}
	return nil
}

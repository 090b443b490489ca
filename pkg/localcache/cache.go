package localcache

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Stats mirrors xcache.MemoryStats: the subset of ristretto's Metrics a
// caller is likely to want without reaching into the ristretto type
// directly.
type Stats struct {
	Hits        uint64
	Misses      uint64
	HitRatio    float64
	KeysAdded   uint64
	KeysEvicted uint64
	CostAdded   uint64
	CostEvicted uint64
}

// Cache is a ristretto-backed in-process near-cache for envelope bytes.
// Writes are asynchronous (ristretto's design): a Set is not guaranteed
// visible to a subsequent Get until Wait returns, which only matters for
// tests and any caller needing read-your-write.
type Cache struct {
	client *ristretto.Cache[string, []byte]
	owned  bool
	closed atomic.Bool
}

// New builds an owned Cache: Close on it shuts down the underlying
// ristretto instance.
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	client, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: o.numCounters,
		MaxCost:     o.maxCost,
		BufferItems: o.bufferItems,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("localcache: create cache: %w", err)
	}
	return &Cache{client: client, owned: true}, nil
}

// FromClient wraps an already-built ristretto cache (Metrics must be
// enabled). Close on the result is a no-op for the underlying client.
func FromClient(client *ristretto.Cache[string, []byte]) (*Cache, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if client.Metrics == nil {
		return nil, ErrMetricsDisabled
	}
	return &Cache{client: client, owned: false}, nil
}

// Get returns the bytes stored for key, if present.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.client.Get(key)
}

// Set stores value for key with the given TTL (0 means no local TTL; the
// entry still rides out ristretto's admission/eviction policy). cost is
// len(value), matching xcache's convention of costing by byte size.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.client.SetWithTTL(key, value, int64(len(value)), ttl)
}

// Del removes key.
func (c *Cache) Del(key string) {
	c.client.Del(key)
}

// Wait blocks until all buffered writes have applied. Tests and any
// read-your-write caller should call this after Set/Del.
func (c *Cache) Wait() {
	c.client.Wait()
}

// Stats reports hit/miss counters, zero-valued once Close has been called.
func (c *Cache) Stats() Stats {
	if c.closed.Load() {
		return Stats{}
	}
	m := c.client.Metrics
	if m == nil {
		return Stats{}
	}
	hits, misses := m.Hits(), m.Misses()
	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return Stats{
		Hits: hits, Misses: misses, HitRatio: ratio,
		KeysAdded: m.KeysAdded(), KeysEvicted: m.KeysEvicted(),
		CostAdded: m.CostAdded(), CostEvicted: m.CostEvicted(),
	}
}

// Close shuts down the cache if owned. Calling it twice returns ErrClosed.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if c.owned {
		c.client.Close()
	}
	return nil
}

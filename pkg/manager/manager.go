package manager

import (
	"fmt"
	"sync"

	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/clock"
	"github.com/corewall/cacheshield/pkg/codec"
	"github.com/corewall/cacheshield/pkg/dlock"
	"github.com/corewall/cacheshield/pkg/guard"
	"github.com/corewall/cacheshield/pkg/prerefresh"
	"github.com/corewall/cacheshield/pkg/registry"
	"github.com/corewall/cacheshield/pkg/rediface"
	"github.com/corewall/cacheshield/pkg/strategy"
	"github.com/corewall/cacheshield/pkg/ttlpolicy"
	"github.com/corewall/cacheshield/pkg/writer"
)

// Manager is the Cache Manager (C10, §4.10): it owns a cacheName →
// CacheHandle map, built lazily from a configuration table, and the
// process-wide collaborators every handle shares (the Redis client, the
// distributed lock primitive, and the pre-refresh worker pool).
type Manager struct {
	opts options

	client   rediface.Client
	dist     *dlock.Locker // nil disables distributed locking cluster-wide
	executor *prerefresh.Executor
	clk      clock.Clock

	mu      sync.RWMutex
	configs map[string]PerCacheConfig
	handles map[string]*CacheHandle
}

// New builds a Manager. dist may be nil if no cache in this process ever
// sets distributedLock; executor must not be nil if any cache enables
// pre-refresh or the double-delete pattern.
func New(client rediface.Client, dist *dlock.Locker, executor *prerefresh.Executor, clk clock.Clock, opts ...Option) *Manager {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Manager{
		opts:     o,
		client:   client,
		dist:     dist,
		executor: executor,
		clk:      clk,
		configs:  make(map[string]PerCacheConfig),
		handles:  make(map[string]*CacheHandle),
	}
}

// RegisterCache adds a cache's configuration. The handle itself is built
// lazily on first Handle call. Registering a name twice returns
// ErrAlreadyRegistered.
func (m *Manager) RegisterCache(name string, cfg PerCacheConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.configs[name]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	m.configs[name] = cfg
	return nil
}

// Handle returns the CacheHandle for name, building it on first use.
func (m *Manager) Handle(name string) (*CacheHandle, error) {
	m.mu.RLock()
	if h, ok := m.handles[name]; ok {
		m.mu.RUnlock()
		return h, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.handles[name]; ok {
		return h, nil
	}
	cfg, ok := m.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheNotRegistered, name)
	}

	h, err := m.build(name, cfg)
	if err != nil {
		return nil, err
	}
	m.handles[name] = h
	return h, nil
}

func (m *Manager) build(name string, cfg PerCacheConfig) (*CacheHandle, error) {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = m.opts.publisher
	}
	cd := cfg.Codec
	if cd == nil {
		cd = codec.JSON{}
	}

	var filter *bloom.Filter
	if cfg.Op.UseBloomFilter {
		f, err := bloom.New(m.client, cfg.BloomOpts...)
		if err != nil {
			return nil, fmt.Errorf("manager: building bloom filter for %s: %w", name, err)
		}
		filter = f
	}

	// The Invocation Registry (C9) owns the per-key lock pool; the Guard
	// takes that same pool as its local tier so a lock and the
	// CachedInvocation it protects always live (and are evicted) together
	// (§4.9, §3 LockReference/Ownership) instead of two independent pools
	// doing the same job.
	reg := registry.New(cfg.RegistryOpts...)
	g := guard.New(reg.LockPool(), m.dist)
	policy := ttlpolicy.New(m.clk)

	h := &CacheHandle{
		name:      name,
		op:        cfg.Op,
		codec:     cd,
		publisher: publisher,
		registry:  reg,
		guard:     g,
		filter:    filter,
		local:     cfg.LocalCache,
		clk:       m.clk,
		logger:    m.opts.logger,
	}

	var preRefreshStrategy strategy.Strategy
	if cfg.Op.EnablePreRefresh {
		if m.executor == nil {
			return nil, fmt.Errorf("manager: cache %s enables pre-refresh but no executor was supplied", name)
		}
		preRefreshStrategy = strategy.NewPreRefresh(policy, m.clk, m.executor, h.refresh, m.opts.logger)
	}

	chain := strategy.NewChain(nil, preRefreshStrategy)
	for _, s := range cfg.Strategies {
		chain.Register(s)
	}
	h.strategies = chain

	h.chain = writer.NewChain(
		writer.NewBloomFilterHandler(filter, publisher),
		writer.NewSyncLockHandler(g),
		writer.NewTTLHandler(policy),
		writer.NewNullValueHandler(),
		writer.NewDelayedDoubleDeleteHandler(m.executor, m.client, m.opts.logger),
		writer.NewActualCacheHandler(m.client, m.clk, m.opts.logger),
	)

	return h, nil
}

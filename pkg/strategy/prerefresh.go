package strategy

import (
	"context"
	"log/slog"

	"github.com/corewall/cacheshield/pkg/clock"
	"github.com/corewall/cacheshield/pkg/operation"
	"github.com/corewall/cacheshield/pkg/prerefresh"
	"github.com/corewall/cacheshield/pkg/ttlpolicy"
)

// RefreshFunc re-invokes the origin loader for (cacheName, key) and writes
// the resulting envelope through to Redis. It is supplied by the Cache
// Manager, which owns the writer chain the strategy package must not
// import directly (the Cache Manager builds both chains).
type RefreshFunc func(ctx context.Context, cacheName, key string) error

// PreRefresh is the breakdown/avalanche mitigation strategy (§4.1, §4.7,
// §4.8): once a hot key's remaining life crosses its pre-refresh
// threshold, it either submits an asynchronous refresh (ASYNC, the
// default) and serves the current value, or forces a miss so the caller
// reloads synchronously (SYNC).
type PreRefresh struct {
	policy   ttlpolicy.Policy
	clk      clock.Clock
	executor *prerefresh.Executor
	refresh  RefreshFunc
	logger   *slog.Logger
}

// NewPreRefresh builds a PreRefresh strategy. In ASYNC mode refresh is
// called from a task on executor. In SYNC mode refresh is not called: Apply
// only forces a miss, and the caller re-fetches.
func NewPreRefresh(policy ttlpolicy.Policy, clk clock.Clock, executor *prerefresh.Executor, refresh RefreshFunc, logger *slog.Logger) *PreRefresh {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreRefresh{policy: policy, clk: clk, executor: executor, refresh: refresh, logger: logger}
}

func (*PreRefresh) Name() string  { return "pre_refresh" }
func (*PreRefresh) Priority() int { return 10 }

func (p *PreRefresh) AppliesTo(op *operation.CacheOperation) bool {
	return op.EnablePreRefresh
}

func (p *PreRefresh) Apply(ctx context.Context, fctx *Context) error {
	if fctx.Value == nil {
		return nil // nothing to refresh yet
	}

	due := p.policy.ShouldPreRefresh(fctx.Value.CreatedTime, fctx.Op.TTLSeconds, fctx.Op.PreRefreshThreshold)
	if !due {
		return nil
	}

	if fctx.Op.PreRefreshMode == operation.PreRefreshSync {
		fctx.ForceMiss = true
		return nil
	}

	dedupKey := fctx.CacheName + "\x00" + fctx.Key
	p.executor.Submit(dedupKey, func(taskCtx context.Context) {
		if err := p.refresh(taskCtx, fctx.CacheName, fctx.Key); err != nil {
			p.logger.Warn("strategy: async pre-refresh failed",
				"cache", fctx.CacheName, "key", fctx.Key, "error", err)
		}
	})
	return nil
}

package writer

import (
	"context"
	"log/slog"
	"time"

	"github.com/corewall/cacheshield/pkg/envelope"
	"github.com/corewall/cacheshield/pkg/prerefresh"
	"github.com/corewall/cacheshield/pkg/rediface"
)

// defaultDoubleDeleteDelay is the window an in-flight read is given to
// re-populate stale data before the follow-up delete clears it (§4.6).
const defaultDoubleDeleteDelay = 300 * time.Millisecond

// DelayedDoubleDeleteHandler is handler 6 of the chain (§4.6): after a
// single-key EVICT or CLEAN completes, it schedules a second delete after
// a short delay onto the Pre-Refresh Executor's worker pool, closing the
// window where a concurrent read may have re-populated stale data.
type DelayedDoubleDeleteHandler struct {
	delay    time.Duration
	executor *prerefresh.Executor
	client   rediface.Client
	logger   *slog.Logger
}

// NewDelayedDoubleDeleteHandler builds the handler. executor may be nil:
// the handler then performs only the single delete already done by
// ActualCache, with no follow-up (suitable for caches that disable the
// double-delete pattern).
func NewDelayedDoubleDeleteHandler(executor *prerefresh.Executor, client rediface.Client, logger *slog.Logger) *DelayedDoubleDeleteHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DelayedDoubleDeleteHandler{delay: defaultDoubleDeleteDelay, executor: executor, client: client, logger: logger}
}

func (*DelayedDoubleDeleteHandler) Name() string { return "delayed_double_delete" }

func (h *DelayedDoubleDeleteHandler) Handle(ctx context.Context, req *Request, next Next) (*Result, error) {
	res, err := next(ctx, req)
	if err != nil || h.executor == nil {
		return res, err
	}
	if req.Action != OpEvict && req.Action != OpClean {
		return res, err
	}

	if req.Action == OpClean && req.AllEntries {
		h.scheduleWildcardSweep(req)
		return res, err
	}

	redisKey, kerr := envelope.RenderKey(req.CacheName, req.Key)
	if kerr != nil {
		return res, err
	}

	dedupKey := "ddd\x00" + req.CacheName + "\x00" + req.Key
	h.executor.Submit(dedupKey, func(taskCtx context.Context) {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-taskCtx.Done():
			return
		}
		if delErr := h.client.Del(taskCtx, redisKey); delErr != nil {
			h.logger.Warn("writer: delayed double-delete failed",
				"cache", req.CacheName, "key", req.Key, "error", delErr)
		}
	})
	return res, err
}

// scheduleWildcardSweep is the CLEAN/allEntries counterpart of the
// single-key delete above (§4.6, spec.md §8 S5): the synchronous sweep
// already ran in ActualCacheHandler.clean, so the second, delayed sweep
// just re-runs the same scan-then-delete pattern rather than a single Del.
// Re-running the sweep is cheap and idempotent — a key another writer
// re-populated in the 300ms window is exactly what this is for, and a key
// nobody re-populated is simply not found by the scan.
func (h *DelayedDoubleDeleteHandler) scheduleWildcardSweep(req *Request) {
	pattern, perr := envelope.RenderKey(req.CacheName, "*")
	if perr != nil {
		return
	}

	dedupKey := "ddd\x00" + req.CacheName + "\x00*"
	h.executor.Submit(dedupKey, func(taskCtx context.Context) {
		timer := time.NewTimer(h.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-taskCtx.Done():
			return
		}
		if sweepErr := h.sweep(taskCtx, pattern); sweepErr != nil {
			h.logger.Warn("writer: delayed double-delete sweep failed",
				"cache", req.CacheName, "error", sweepErr)
		}
	})
}

// sweep mirrors ActualCacheHandler.clean's wildcard scan+delete loop.
func (h *DelayedDoubleDeleteHandler) sweep(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := h.client.Scan(ctx, cursor, pattern, scanBatchSize)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := h.client.Del(ctx, keys...); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

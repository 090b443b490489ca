package writer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/corewall/cacheshield/pkg/clock"
	"github.com/corewall/cacheshield/pkg/envelope"
	"github.com/corewall/cacheshield/pkg/rediface"
)

const scanBatchSize = 500

// ActualCacheHandler is handler 5 of the chain (§4.6), and terminal: it
// performs the real Redis read, write, or delete, encoding and decoding
// the ValueEnvelope wire format (C11). It is the only handler permitted to
// swallow a read error as a miss, after logging and counting it.
type ActualCacheHandler struct {
	client rediface.Client
	clk    clock.Clock
	logger *slog.Logger
}

// NewActualCacheHandler builds the handler.
func NewActualCacheHandler(client rediface.Client, clk clock.Clock, logger *slog.Logger) *ActualCacheHandler {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActualCacheHandler{client: client, clk: clk, logger: logger}
}

func (*ActualCacheHandler) Name() string { return "actual_cache" }

func (h *ActualCacheHandler) Handle(ctx context.Context, req *Request, _ Next) (*Result, error) {
	redisKey, err := envelope.RenderKey(req.CacheName, req.Key)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case OpGet:
		return h.get(ctx, req, redisKey)
	case OpPut:
		return h.put(ctx, req, redisKey, false)
	case OpPutIfAbsent:
		return h.put(ctx, req, redisKey, true)
	case OpEvict:
		return h.evict(ctx, req, redisKey)
	case OpClean:
		return h.clean(ctx, req, redisKey)
	default:
		return nil, ErrUnknownOperation
	}
}

func (h *ActualCacheHandler) get(ctx context.Context, req *Request, redisKey string) (*Result, error) {
	raw, err := h.client.Get(ctx, redisKey)
	if err != nil {
		if errors.Is(err, rediface.ErrNotFound) {
			return &Result{Found: false}, nil
		}
		h.logger.Warn("writer: redis get failed, degrading to miss",
			"cache", req.CacheName, "key", req.Key, "error", err)
		return &Result{Found: false}, nil
	}

	env, err := envelope.Decode(raw)
	if err != nil {
		h.logger.Warn("writer: envelope decode failed, degrading to miss",
			"cache", req.CacheName, "key", req.Key, "error", err)
		return &Result{Found: false}, nil
	}

	return &Result{Envelope: env.Touch(h.clk.NowMillis()), Found: true}, nil
}

func (h *ActualCacheHandler) put(ctx context.Context, req *Request, redisKey string, ifAbsent bool) (*Result, error) {
	prev := h.loadPrevious(ctx, req, redisKey)
	env := envelope.Overwrite(prev, req.Value, req.IsNull, req.ReturnType, req.EffectiveTTLSeconds, h.clk.NowMillis())
	data, err := envelope.Encode(env)
	if err != nil {
		return nil, err
	}

	var ttl time.Duration
	if req.EffectiveTTLSeconds > 0 {
		ttl = time.Duration(req.EffectiveTTLSeconds) * time.Second
	}

	if ifAbsent {
		wrote, err := h.client.SetIfAbsent(ctx, redisKey, data, ttl)
		if err != nil {
			return nil, err
		}
		return &Result{Found: wrote}, nil
	}

	if err := h.client.Set(ctx, redisKey, data, ttl); err != nil {
		return nil, err
	}
	return &Result{Found: true}, nil
}

// loadPrevious reads the currently-stored envelope for redisKey so put can
// carry its Version forward via envelope.Overwrite. A missing key, a Redis
// error, or an undecodable record all degrade to nil (treated by Overwrite
// as "no prior version"), matching get's read-failure-degrades-gracefully
// posture: a write must never fail just because the version bookkeeping
// couldn't be read back.
func (h *ActualCacheHandler) loadPrevious(ctx context.Context, req *Request, redisKey string) *envelope.Envelope {
	raw, err := h.client.Get(ctx, redisKey)
	if err != nil {
		if !errors.Is(err, rediface.ErrNotFound) {
			h.logger.Warn("writer: redis get failed reading prior version, treating as first write",
				"cache", req.CacheName, "key", req.Key, "error", err)
		}
		return nil
	}
	env, err := envelope.Decode(raw)
	if err != nil {
		h.logger.Warn("writer: envelope decode failed reading prior version, treating as first write",
			"cache", req.CacheName, "key", req.Key, "error", err)
		return nil
	}
	return env
}

func (h *ActualCacheHandler) evict(ctx context.Context, _ *Request, redisKey string) (*Result, error) {
	if err := h.client.Del(ctx, redisKey); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func (h *ActualCacheHandler) clean(ctx context.Context, req *Request, redisKey string) (*Result, error) {
	if !req.AllEntries {
		if err := h.client.Del(ctx, redisKey); err != nil {
			return nil, err
		}
		return &Result{}, nil
	}

	pattern, err := envelope.RenderKey(req.CacheName, "*")
	if err != nil {
		return nil, err
	}

	var cursor uint64
	for {
		keys, next, err := h.client.Scan(ctx, cursor, pattern, scanBatchSize)
		if err != nil {
			return nil, err
		}
		if len(keys) > 0 {
			if err := h.client.Del(ctx, keys...); err != nil {
				return nil, err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return &Result{}, nil
}

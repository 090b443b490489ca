package writer

import (
	"context"

	"github.com/corewall/cacheshield/pkg/ttlpolicy"
)

// TTLHandler is handler 3 of the chain (§4.6): before a write, it computes
// the effective TTL (with jitter, per §4.1) and attaches it to the
// request for ActualCache to use.
type TTLHandler struct {
	policy ttlpolicy.Policy
}

// NewTTLHandler builds the handler.
func NewTTLHandler(policy ttlpolicy.Policy) *TTLHandler {
	return &TTLHandler{policy: policy}
}

func (*TTLHandler) Name() string { return "ttl" }

func (h *TTLHandler) Handle(ctx context.Context, req *Request, next Next) (*Result, error) {
	if req.Action == OpPut || req.Action == OpPutIfAbsent {
		req.EffectiveTTLSeconds = h.policy.FinalTTL(req.CacheOp.TTLSeconds, req.CacheOp.RandomTTL, req.CacheOp.Variance)
	}
	return next(ctx, req)
}

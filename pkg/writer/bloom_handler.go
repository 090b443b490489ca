package writer

import (
	"context"

	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/events"
)

// BloomFilterHandler is handler 1 of the chain (§4.6): it gates GET against
// the two-tier bloom filter, and keeps the filter current on writes.
type BloomFilterHandler struct {
	filter    *bloom.Filter
	publisher events.Publisher
}

// NewBloomFilterHandler builds the handler. filter may be nil: the handler
// then passes every request straight through, matching a cache that never
// enables bloom protection.
func NewBloomFilterHandler(filter *bloom.Filter, publisher events.Publisher) *BloomFilterHandler {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &BloomFilterHandler{filter: filter, publisher: publisher}
}

func (*BloomFilterHandler) Name() string { return "bloom" }

func (h *BloomFilterHandler) Handle(ctx context.Context, req *Request, next Next) (*Result, error) {
	switch req.Action {
	case OpGet:
		if req.CacheOp.UseBloomFilter && h.filter != nil && !h.filter.MightContain(ctx, req.CacheName, req.Key) {
			h.publisher.Publish(ctx, events.New(events.CacheMiss, req.CacheName, req.Key, "bloom", nil))
			return &Result{Found: false, Rejected: true}, nil
		}
		return next(ctx, req)

	case OpPut, OpPutIfAbsent:
		res, err := next(ctx, req)
		if err == nil && req.CacheOp.UseBloomFilter && h.filter != nil {
			_ = h.filter.Add(ctx, req.CacheName, req.Key)
		}
		return res, err

	case OpClean:
		res, err := next(ctx, req)
		if err == nil && req.AllEntries && h.filter != nil {
			_ = h.filter.Clear(ctx, req.CacheName)
		}
		return res, err

	default:
		return next(ctx, req)
	}
}

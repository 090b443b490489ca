package writer

import "context"

// Next invokes the remainder of the chain after the calling handler.
type Next func(ctx context.Context, req *Request) (*Result, error)

// Handler is one stage of the Cache Writer Handler Chain (C8, §4.6). A
// handler may short-circuit by not calling next, or delegate by calling it
// and post-processing the result.
type Handler interface {
	Name() string
	Handle(ctx context.Context, req *Request, next Next) (*Result, error)
}

// Chain composes handlers in a fixed order (§4.6: BloomFilter, SyncLock,
// TTL, NullValue, DelayedDoubleDelete, ActualCache). The terminal handler
// (ActualCache) must ignore the Next it is given.
type Chain struct {
	handlers []Handler
}

// NewChain builds a Chain from handlers in the order they should run.
func NewChain(handlers ...Handler) *Chain {
	return &Chain{handlers: append([]Handler(nil), handlers...)}
}

// Handle runs req through the full chain.
func (c *Chain) Handle(ctx context.Context, req *Request) (*Result, error) {
	return c.at(0)(ctx, req)
}

func (c *Chain) at(i int) Next {
	if i >= len(c.handlers) {
		return func(context.Context, *Request) (*Result, error) {
			return nil, ErrChainExhausted
		}
	}
	h := c.handlers[i]
	rest := c.at(i + 1)
	return func(ctx context.Context, req *Request) (*Result, error) {
		return h.Handle(ctx, req, rest)
	}
}

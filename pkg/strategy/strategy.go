// Package strategy implements the Fetch Strategy Chain (C7, §4.7): an
// ordered composition of strategies that post-process a read once the raw
// envelope has been fetched (or not found) in Redis, deciding whether the
// caller should fall through to the origin loader.
package strategy

import (
	"context"

	"github.com/corewall/cacheshield/pkg/envelope"
	"github.com/corewall/cacheshield/pkg/operation"
)

// Context carries the per-request state a Strategy inspects and mutates.
// It is built fresh for every read; only the compiled chain is cached.
type Context struct {
	CacheName string
	Key       string
	Op        *operation.CacheOperation

	// Value is the envelope decoded from Redis, nil on a cache miss.
	Value *envelope.Envelope

	// PossiblePenetration is set by the Bloom strategy when the key was
	// never Add-ed: the caller should treat this as a definite miss and
	// skip the origin load entirely.
	PossiblePenetration bool

	// ForceMiss tells the caller to report a miss regardless of Value,
	// e.g. a synchronous pre-refresh that wants the caller to reload.
	ForceMiss bool
}

// Strategy is one stage of the Fetch Strategy Chain.
type Strategy interface {
	Name() string
	// Priority orders strategies ascending; Simple is the terminal
	// fallback and always sorts last.
	Priority() int
	// AppliesTo reports whether this strategy participates in the chain
	// compiled for op.
	AppliesTo(op *operation.CacheOperation) bool
	// Apply inspects and may mutate fctx. An error aborts the chain.
	Apply(ctx context.Context, fctx *Context) error
}

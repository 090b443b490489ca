package strategy

import (
	"context"

	"github.com/corewall/cacheshield/pkg/operation"
)

// simplePriority is deliberately far above any registered custom strategy
// so Simple always sorts last in a compiled chain.
const simplePriority = 1 << 30

// Simple is the terminal fallback (§4.7): it returns the fetched value
// unchanged. It is appended to every compiled chain and never itself
// forces a miss.
type Simple struct{}

func (Simple) Name() string                                  { return "simple" }
func (Simple) Priority() int                                 { return simplePriority }
func (Simple) AppliesTo(*operation.CacheOperation) bool       { return true }
func (Simple) Apply(context.Context, *Context) error          { return nil }

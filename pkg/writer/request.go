package writer

import (
	"context"

	"github.com/corewall/cacheshield/pkg/envelope"
	"github.com/corewall/cacheshield/pkg/guard"
	"github.com/corewall/cacheshield/pkg/operation"
)

// Op names one of the five writer operations (§4.6).
type Op string

const (
	OpGet          Op = "GET"
	OpPut          Op = "PUT"
	OpPutIfAbsent  Op = "PUT_IF_ABSENT"
	OpEvict        Op = "EVICT"
	OpClean        Op = "CLEAN"
)

// WriteThroughFunc writes a freshly loaded value through to Redis on behalf
// of the SyncLock handler's Breakdown Guard. It runs the remainder of the
// PUT path (TTL, NullValue, ActualCache) for (cacheName, key).
type WriteThroughFunc func(ctx context.Context, value []byte, isNull bool) error

// Request is one call into the chain. Its zero value is never valid;
// construct via the Op-specific helpers the cache manager builds.
type Request struct {
	Action    Op
	CacheName string
	Key       string
	CacheOp   *operation.CacheOperation

	// Value, IsNull, ReturnType are inputs for PUT / PUT_IF_ABSENT.
	Value      []byte
	IsNull     bool
	ReturnType string

	// EffectiveTTLSeconds is computed by TTLHandler before ActualCache
	// writes; callers never set it.
	EffectiveTTLSeconds int64

	// AllEntries selects the wildcard form of CLEAN (allEntries=true).
	AllEntries bool

	// Load is the origin loader invoked under the Breakdown Guard when
	// SyncLockHandler applies. Required for GET when sync/distributed/
	// internal locking is enabled on CacheOp.
	Load guard.LoadFunc

	// WriteThrough write-throughs a value loaded under the guard. Required
	// under the same conditions as Load.
	WriteThrough WriteThroughFunc
}

// Result is what a handler chain produces.
type Result struct {
	// Envelope is the decoded envelope for a GET hit; nil on a miss.
	Envelope *envelope.Envelope

	// Found is true for a GET hit or a PUT_IF_ABSENT that actually wrote.
	Found bool

	// Rejected is true when BloomFilter short-circuited a GET as a
	// definite miss (§8 penetration defense).
	Rejected bool
}

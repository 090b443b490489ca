package writer

import (
	"context"
	"errors"

	"github.com/corewall/cacheshield/pkg/guard"
)

// SyncLockHandler is handler 2 of the chain (§4.6): for a GET configured
// with sync, distributedLock, or internalLock, it wraps the rest of the
// chain's read in the Breakdown Guard (§4.5) so concurrent callers on a
// miss invoke the origin loader exactly once.
type SyncLockHandler struct {
	guard *guard.Guard
}

// NewSyncLockHandler builds the handler. guard may be nil: the handler
// then always passes through, suitable for a cache that never requests
// any of the three locking flags.
func NewSyncLockHandler(g *guard.Guard) *SyncLockHandler {
	return &SyncLockHandler{guard: g}
}

func (*SyncLockHandler) Name() string { return "sync_lock" }

func (h *SyncLockHandler) Handle(ctx context.Context, req *Request, next Next) (*Result, error) {
	if req.Action != OpGet || h.guard == nil {
		return next(ctx, req)
	}

	op := req.CacheOp
	if !(op.Sync || op.DistributedLock || op.InternalLock) {
		return next(ctx, req)
	}

	read := func(ctx context.Context) ([]byte, bool, error) {
		res, err := next(ctx, req)
		if err != nil {
			return nil, false, err
		}
		if !res.Found || res.Envelope == nil {
			return nil, false, nil
		}
		return res.Envelope.Value, true, nil
	}

	load := func(ctx context.Context) ([]byte, error) {
		if req.Load == nil {
			return nil, ErrNoLoader
		}
		return req.Load(ctx)
	}

	write := func(ctx context.Context, value []byte) error {
		if req.WriteThrough == nil {
			return nil
		}
		return req.WriteThrough(ctx, value, false)
	}

	value, err := h.guard.Load(ctx, req.CacheName, req.Key, op.DistributedLock, op.DistributedLockName, read, load, write)
	if err != nil {
		if errors.Is(err, guard.ErrLoaderReturnedNil) {
			return &Result{Found: false}, err
		}
		return nil, err
	}
	return &Result{Found: true, Envelope: envelopeWithValue(req.ReturnType, value)}, nil
}

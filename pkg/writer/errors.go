package writer

import "errors"

var (
	// ErrNoLoader is returned when SyncLockHandler needs to invoke the
	// origin loader but Request.Load is nil.
	ErrNoLoader = errors.New("writer: request has no Load set for a locked GET")

	// ErrUnknownOperation is returned by ActualCacheHandler for an Op it
	// does not recognize.
	ErrUnknownOperation = errors.New("writer: unknown operation")

	// ErrChainExhausted is returned if a handler calls next past the end
	// of the configured chain; it signals a misconfigured chain, not a
	// normal runtime condition.
	ErrChainExhausted = errors.New("writer: handler chain exhausted without a terminal handler")
)

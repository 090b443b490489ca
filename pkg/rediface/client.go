package rediface

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get/HGet when the key or field does not exist.
// Adapters must translate their backend's "nil" sentinel (e.g. redis.Nil)
// into this error so callers never import a transport-specific package.
var ErrNotFound = errors.New("rediface: not found")

// Client is the narrow Redis surface the cacheshield engine consumes. It
// enumerates exactly the operations spec'd for the core: no pipelines,
// transactions, or pub/sub leak through this boundary, matching the "out of
// scope: Redis transport and connection pooling" contract.
type Client interface {
	// Get returns the value stored at key, or ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value at key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent writes value at key only if key does not already exist
	// (Redis SETNX semantics). Returns true if the write happened.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)

	// Del deletes the given keys. Deleting a key that does not exist is not
	// an error.
	Del(ctx context.Context, keys ...string) error

	// HSet sets a single hash field.
	HSet(ctx context.Context, key, field string, value []byte) error

	// HGet returns a single hash field, or ErrNotFound if the hash or field
	// does not exist.
	HGet(ctx context.Context, key, field string) ([]byte, error)

	// HDel deletes hash fields. Deleting fields that do not exist is not an
	// error.
	HDel(ctx context.Context, key string, fields ...string) error

	// Expire sets a TTL on an existing key. Has no effect on a missing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// PTTL returns the remaining TTL of key. Returns -1 for a key with no
	// expiry and -2 for a missing key, matching Redis PTTL semantics.
	PTTL(ctx context.Context, key string) (time.Duration, error)

	// Keys returns all keys matching pattern. Callers on a production-sized
	// keyspace should prefer Scan; Keys exists because the spec names it as
	// part of the consumed contract. Nothing in the engine calls it; CLEAN
	// uses Scan.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Scan performs one cursor-based SCAN iteration, returning a batch of
	// matching keys and the cursor to pass on the next call. A returned
	// cursor of 0 means iteration is complete.
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) (keys []string, nextCursor uint64, err error)

	// Eval runs a Lua script against the given keys/args and returns its
	// raw result.
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
}

package bloom

import (
	"context"
	"errors"
	"strconv"

	"github.com/corewall/cacheshield/pkg/rediface"
)

// remoteTier is the Redis-backed tier shared by every process running this
// engine against the same Redis instance. Each cache name's bitset is stored
// as a hash: field is the decimal bit index, value is a single "1" byte.
// A hash (rather than a raw Redis bitmap) keeps the representation portable
// across the narrow rediface.Client contract without requiring SETBIT/GETBIT
// support.
type remoteTier struct {
	client rediface.Client
	prefix string
}

func newRemoteTier(client rediface.Client, prefix string) *remoteTier {
	return &remoteTier{client: client, prefix: prefix}
}

func (r *remoteTier) hashKey(cacheName string) string {
	return r.prefix + cacheName
}

func (r *remoteTier) add(ctx context.Context, cacheName string, positions []uint64) error {
	key := r.hashKey(cacheName)
	for _, p := range positions {
		if err := r.client.HSet(ctx, key, strconv.FormatUint(p, 10), []byte("1")); err != nil {
			return err
		}
	}
	return nil
}

// mightContain reports whether every bit in positions is set in Redis for
// cacheName. The returned error is non-nil if the check itself failed
// (network error, etc.); callers must treat that as fail-open.
func (r *remoteTier) mightContain(ctx context.Context, cacheName string, positions []uint64) (bool, error) {
	key := r.hashKey(cacheName)
	for _, p := range positions {
		_, err := r.client.HGet(ctx, key, strconv.FormatUint(p, 10))
		if errors.Is(err, rediface.ErrNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *remoteTier) clearCache(ctx context.Context, cacheName string) error {
	return r.client.Del(ctx, r.hashKey(cacheName))
}

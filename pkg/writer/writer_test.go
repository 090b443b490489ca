package writer_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewall/cacheshield/pkg/bloom"
	"github.com/corewall/cacheshield/pkg/clock"
	"github.com/corewall/cacheshield/pkg/dlock"
	"github.com/corewall/cacheshield/pkg/guard"
	"github.com/corewall/cacheshield/pkg/lockpool"
	"github.com/corewall/cacheshield/pkg/operation"
	"github.com/corewall/cacheshield/pkg/prerefresh"
	"github.com/corewall/cacheshield/pkg/rediface"
	"github.com/corewall/cacheshield/pkg/ttlpolicy"
	"github.com/corewall/cacheshield/pkg/writer"
)

type harness struct {
	client rediface.Client
	chain  *writer.Chain
}

func newHarness(t *testing.T, withBloom, withGuard, withDoubleDelete bool) *harness {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := rediface.NewGoRedis(rdb)

	var filter *bloom.Filter
	if withBloom {
		f, err := bloom.New(nil)
		require.NoError(t, err)
		filter = f
	}

	var g *guard.Guard
	if withGuard {
		dist, err := dlock.New(rdb)
		require.NoError(t, err)
		g = guard.New(lockpool.New(), dist)
	}

	var exec *prerefresh.Executor
	if withDoubleDelete {
		exec = prerefresh.New()
		t.Cleanup(func() { _ = exec.Shutdown(context.Background(), time.Second) })
	}

	mc := clock.NewManual(time.UnixMilli(1_000_000))
	chain := writer.NewChain(
		writer.NewBloomFilterHandler(filter, nil),
		writer.NewSyncLockHandler(g),
		writer.NewTTLHandler(ttlpolicy.New(mc)),
		writer.NewNullValueHandler(),
		writer.NewDelayedDoubleDeleteHandler(exec, client, nil),
		writer.NewActualCacheHandler(client, mc, nil),
	)
	return &harness{client: client, chain: chain}
}

func opWith(opts ...operation.Option) *operation.CacheOperation {
	op, err := operation.New([]string{"users"}, opts...)
	if err != nil {
		panic(err)
	}
	return op
}

func TestPutThenGetRoundTrips(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60))

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice"), ReturnType: "string",
	})
	require.NoError(t, err)

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "alice", string(res.Envelope.Value))
}

func TestPutTwiceIncrementsVersion(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60))

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice"), ReturnType: "string",
	})
	require.NoError(t, err)

	res1, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, res1.Envelope.Version)

	_, err = h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice2"), ReturnType: "string",
	})
	require.NoError(t, err)

	res2, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, res2.Envelope.Version)
	assert.Equal(t, "alice2", string(res2.Envelope.Value))
}

func TestGetMissWhenNeverWritten(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith()

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "ghost", CacheOp: op,
	})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestBloomRejectsUnknownKeyWithoutReadingRedis(t *testing.T) {
	h := newHarness(t, true, false, false)
	op := opWith(operation.WithBloomFilter())

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "ghost", CacheOp: op,
	})
	require.NoError(t, err)
	assert.True(t, res.Rejected)
	assert.False(t, res.Found)
}

func TestBloomAllowsKeyAfterPut(t *testing.T) {
	h := newHarness(t, true, false, false)
	op := opWith(operation.WithBloomFilter(), operation.WithTTL(60))

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice"), ReturnType: "string",
	})
	require.NoError(t, err)

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)
	assert.False(t, res.Rejected)
	assert.True(t, res.Found)
}

func TestNullValueDisabledIsNoop(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60))

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "null1", CacheOp: op,
		IsNull: true,
	})
	require.NoError(t, err)
	assert.False(t, res.Found)

	get, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "null1", CacheOp: op,
	})
	require.NoError(t, err)
	assert.False(t, get.Found)
}

func TestNullValueEnabledCachesNullMarker(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60), operation.WithCacheNullValues())

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "null2", CacheOp: op,
		IsNull: true,
	})
	require.NoError(t, err)

	get, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "null2", CacheOp: op,
	})
	require.NoError(t, err)
	require.True(t, get.Found)
	assert.True(t, get.Envelope.IsNull)
}

func TestEvictRemovesEntry(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60))

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice"),
	})
	require.NoError(t, err)

	_, err = h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpEvict, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)

	res, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)
	assert.False(t, res.Found)
}

func TestCleanAllEntriesWildcard(t *testing.T) {
	h := newHarness(t, false, false, false)
	op := opWith(operation.WithTTL(60))

	for _, k := range []string{"1", "2", "3"} {
		_, err := h.chain.Handle(context.Background(), &writer.Request{
			Action: writer.OpPut, CacheName: "users", Key: k, CacheOp: op,
			Value: []byte("v" + k),
		})
		require.NoError(t, err)
	}

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpClean, CacheName: "users", CacheOp: op, AllEntries: true,
	})
	require.NoError(t, err)

	for _, k := range []string{"1", "2", "3"} {
		res, err := h.chain.Handle(context.Background(), &writer.Request{
			Action: writer.OpGet, CacheName: "users", Key: k, CacheOp: op,
		})
		require.NoError(t, err)
		assert.False(t, res.Found)
	}
}

func TestDelayedDoubleDeleteRemovesReinsertedValue(t *testing.T) {
	h := newHarness(t, false, false, true)
	op := opWith(operation.WithTTL(60))

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("alice"),
	})
	require.NoError(t, err)

	_, err = h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpEvict, CacheName: "users", Key: "1", CacheOp: op,
	})
	require.NoError(t, err)

	// simulate a racing read that re-populated stale data right after the
	// synchronous delete
	_, err = h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("stale"),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := h.chain.Handle(context.Background(), &writer.Request{
			Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
		})
		return err == nil && !res.Found
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDelayedDoubleDeleteSweepsReinsertedWildcardEntries(t *testing.T) {
	h := newHarness(t, false, false, true)
	op := opWith(operation.WithTTL(60))

	for _, k := range []string{"1", "2"} {
		_, err := h.chain.Handle(context.Background(), &writer.Request{
			Action: writer.OpPut, CacheName: "users", Key: k, CacheOp: op,
			Value: []byte("v" + k),
		})
		require.NoError(t, err)
	}

	_, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpClean, CacheName: "users", CacheOp: op, AllEntries: true,
	})
	require.NoError(t, err)

	// simulate a racing read that re-populated stale data for one key right
	// after the synchronous sweep (spec.md §8 S5)
	_, err = h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpPut, CacheName: "users", Key: "1", CacheOp: op,
		Value: []byte("stale"),
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		res, err := h.chain.Handle(context.Background(), &writer.Request{
			Action: writer.OpGet, CacheName: "users", Key: "1", CacheOp: op,
		})
		return err == nil && !res.Found
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSyncLockBreakdownLoaderInvokedOnce(t *testing.T) {
	h := newHarness(t, false, true, false)
	op := opWith(operation.WithSync())

	var loadCalls int
	req := &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "hot", CacheOp: op,
		ReturnType: "string",
		Load: func(context.Context) ([]byte, error) {
			loadCalls++
			return []byte("fresh"), nil
		},
		WriteThrough: func(ctx context.Context, value []byte, isNull bool) error {
			_, err := h.chain.Handle(ctx, &writer.Request{
				Action: writer.OpPut, CacheName: "users", Key: "hot", CacheOp: op,
				Value: value, IsNull: isNull, ReturnType: "string",
			})
			return err
		},
	}

	res, err := h.chain.Handle(context.Background(), req)
	require.NoError(t, err)
	require.True(t, res.Found)
	assert.Equal(t, "fresh", string(res.Envelope.Value))
	assert.Equal(t, 1, loadCalls)

	// a second GET must now find the written-through value without calling Load again
	res2, err := h.chain.Handle(context.Background(), &writer.Request{
		Action: writer.OpGet, CacheName: "users", Key: "hot", CacheOp: op,
	})
	require.NoError(t, err)
	require.True(t, res2.Found)
	assert.Equal(t, "fresh", string(res2.Envelope.Value))
	assert.Equal(t, 1, loadCalls)
}

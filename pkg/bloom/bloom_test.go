package bloom

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/corewall/cacheshield/pkg/rediface"
)

func newTestFilter(t *testing.T, opts ...Option) *Filter {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f, err := New(rediface.NewGoRedis(rdb), opts...)
	require.NoError(t, err)
	return f
}

func TestFilter_AddThenMightContain(t *testing.T) {
	f := newTestFilter(t)
	ctx := context.Background()

	require.False(t, f.MightContain(ctx, "users", "u1"))

	require.NoError(t, f.Add(ctx, "users", "u1"))
	require.True(t, f.MightContain(ctx, "users", "u1"))
}

func TestFilter_NeverFalseNegative(t *testing.T) {
	f := newTestFilter(t, WithBitSize(1<<16), WithHashFunctions(4))
	ctx := context.Background()

	keys := make([]string, 500)
	for i := range keys {
		keys[i] = "key-" + strconv.Itoa(i)
		require.NoError(t, f.Add(ctx, "c", keys[i]))
	}
	for _, k := range keys {
		require.True(t, f.MightContain(ctx, "c", k))
	}
}

func TestFilter_ClearForgets(t *testing.T) {
	f := newTestFilter(t)
	ctx := context.Background()

	require.NoError(t, f.Add(ctx, "c", "k"))
	require.True(t, f.MightContain(ctx, "c", "k"))

	require.NoError(t, f.Clear(ctx, "c"))
	require.False(t, f.MightContain(ctx, "c", "k"))
}

func TestFilter_SeparateCacheNamesDoNotLeak(t *testing.T) {
	f := newTestFilter(t)
	ctx := context.Background()

	require.NoError(t, f.Add(ctx, "a", "k"))
	require.False(t, f.MightContain(ctx, "b", "k"))
}

func TestFilter_LocalOnlyWhenNoClient(t *testing.T) {
	f, err := New(nil, WithBitSize(1<<12))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, f.Add(ctx, "c", "k"))
	require.True(t, f.MightContain(ctx, "c", "k"))
	require.False(t, f.MightContain(ctx, "c", "other"))
}

func TestFilter_RemoteHitWarmsLocal(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	client := rediface.NewGoRedis(rdb)
	ctx := context.Background()

	writer, err := New(client, WithBitSize(1<<12))
	require.NoError(t, err)
	require.NoError(t, writer.Add(ctx, "c", "k"))

	// a fresh Filter sharing the same remote tier has a cold local bitset
	reader, err := New(client, WithBitSize(1<<12))
	require.NoError(t, err)
	require.True(t, reader.MightContain(ctx, "c", "k"))
	// local tier is now warm; a second lookup must not need the remote tier
	require.True(t, reader.local.mightContain("c", positions("k", defaultHashFunctions, 1<<12)))
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	_, err := New(nil, WithBitSize(0))
	require.ErrorIs(t, err, ErrInvalidBitSize)

	_, err = New(nil, WithHashFunctions(0))
	require.ErrorIs(t, err, ErrInvalidHashFunctions)
}

func TestFilter_RejectsEmptyCacheNameOrKey(t *testing.T) {
	f := newTestFilter(t)
	ctx := context.Background()

	require.ErrorIs(t, f.Add(ctx, "", "k"), ErrEmptyCacheName)
	require.ErrorIs(t, f.Add(ctx, "c", ""), ErrEmptyKey)

	// MightContain fails open rather than erroring on bad input
	require.True(t, f.MightContain(ctx, "", "k"))
	require.True(t, f.MightContain(ctx, "c", ""))
}

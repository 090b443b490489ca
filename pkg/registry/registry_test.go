package registry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewall/cacheshield/pkg/registry"
)

func loader(b []byte) registry.LoaderFunc {
	return func(context.Context) ([]byte, bool, error) { return b, false, nil }
}

func TestPutGet(t *testing.T) {
	r := registry.New()
	err := r.Put(&registry.CachedInvocation{CacheName: "users", Key: "1", Loader: loader([]byte("david"))})
	require.NoError(t, err)

	inv, ok := r.Get("users", "1")
	require.True(t, ok)
	assert.Equal(t, "users", inv.CacheName)
	assert.Equal(t, "1", inv.Key)
}

func TestPutRejectsEmptyKeyOnCacheableRegistry(t *testing.T) {
	r := registry.New()
	err := r.Put(&registry.CachedInvocation{CacheName: "users", Key: "", Loader: loader(nil)})
	assert.ErrorIs(t, err, registry.ErrEmptyKey)
}

func TestPutNormalizesEmptyKeyOnEvictRegistry(t *testing.T) {
	r := registry.NewEvict()
	err := r.Put(&registry.CachedInvocation{CacheName: "users", Key: "", Loader: loader(nil)})
	require.NoError(t, err)

	inv, ok := r.Get("users", registry.WildcardKey)
	require.True(t, ok)
	assert.Equal(t, registry.WildcardKey, inv.Key)
}

func TestEvictRemoves(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Put(&registry.CachedInvocation{CacheName: "users", Key: "1", Loader: loader(nil)}))
	r.Evict("users", "1")
	_, ok := r.Get("users", "1")
	assert.False(t, ok)
}

func TestDifferentCacheNamesAreIndependent(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Put(&registry.CachedInvocation{CacheName: "users", Key: "1", Loader: loader([]byte("a"))}))
	require.NoError(t, r.Put(&registry.CachedInvocation{CacheName: "orders", Key: "1", Loader: loader([]byte("b"))}))

	u, _ := r.Get("users", "1")
	o, _ := r.Get("orders", "1")
	assert.NotEqual(t, u.Loader, o.Loader)
}

func TestLockForSameKeySerializes(t *testing.T) {
	r := registry.New()
	ctx := context.Background()

	h1, err := r.LockFor(ctx, "users", "1")
	require.NoError(t, err)

	h2, err := r.TryLockFor("users", "1")
	require.NoError(t, err)
	assert.Nil(t, h2, "second acquisition of a held key must not succeed")

	require.NoError(t, h1.Release())

	h3, err := r.TryLockFor("users", "1")
	require.NoError(t, err)
	require.NotNil(t, h3)
	require.NoError(t, h3.Release())
}

func TestIdleTTLConfigured(t *testing.T) {
	r := registry.New(registry.WithIdleTTL(5 * time.Minute))
	assert.Equal(t, 5*time.Minute, r.IdleTTL())
}

func TestLenReflectsEntries(t *testing.T) {
	r := registry.New()
	require.NoError(t, r.Put(&registry.CachedInvocation{CacheName: "users", Key: "1", Loader: loader(nil)}))
	require.NoError(t, r.Put(&registry.CachedInvocation{CacheName: "users", Key: "2", Loader: loader(nil)}))
	assert.Equal(t, 2, r.Len())
}

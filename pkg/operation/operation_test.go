package operation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corewall/cacheshield/pkg/operation"
)

func TestNewDefaults(t *testing.T) {
	op, err := operation.New([]string{"users"})
	require.NoError(t, err)
	assert.Equal(t, operation.FetchAuto, op.FetchStrategy)
	assert.Equal(t, int64(0), op.TTLSeconds)
}

func TestNewRequiresCacheNames(t *testing.T) {
	_, err := operation.New(nil)
	assert.ErrorIs(t, err, operation.ErrNoCacheNames)
}

func TestPreRefreshRequiresPositiveTTL(t *testing.T) {
	_, err := operation.New([]string{"users"},
		operation.WithPreRefresh(0.3, operation.PreRefreshAsync))
	assert.ErrorIs(t, err, operation.ErrPreRefreshNeedsTTL)
}

func TestPreRefreshWithTTLSucceeds(t *testing.T) {
	op, err := operation.New([]string{"users"},
		operation.WithTTL(300),
		operation.WithPreRefresh(0.3, operation.PreRefreshAsync))
	require.NoError(t, err)
	assert.True(t, op.EnablePreRefresh)
}

func TestRandomTTLRequiresVariance(t *testing.T) {
	_, err := operation.New([]string{"users"}, operation.WithTTL(300),
		func(o *operation.CacheOperation) { o.RandomTTL = true })
	assert.ErrorIs(t, err, operation.ErrRandomTTLNeedsVariance)
}

func TestDistributedLockRequiresName(t *testing.T) {
	_, err := operation.New([]string{"users"}, operation.WithTTL(300),
		func(o *operation.CacheOperation) { o.DistributedLock = true })
	assert.ErrorIs(t, err, operation.ErrMissingLockName)
}

func TestDistributedLockWithNameSucceeds(t *testing.T) {
	op, err := operation.New([]string{"users"}, operation.WithTTL(300),
		operation.WithDistributedLock("users:refresh"))
	require.NoError(t, err)
	assert.Equal(t, "users:refresh", op.DistributedLockName)
}

func TestThresholdOutOfRange(t *testing.T) {
	_, err := operation.New([]string{"users"}, operation.WithTTL(300),
		operation.WithPreRefresh(1.5, operation.PreRefreshAsync))
	assert.ErrorIs(t, err, operation.ErrThresholdOutOfRange)
}

func TestVarianceOutOfRange(t *testing.T) {
	_, err := operation.New([]string{"users"},
		func(o *operation.CacheOperation) { o.Variance = 1.5 })
	assert.ErrorIs(t, err, operation.ErrVarianceOutOfRange)
}

package prerefresh_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/corewall/cacheshield/pkg/prerefresh"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestSubmitRunsTask(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(2))
	defer e.Shutdown(context.Background(), time.Second)

	var ran atomic.Bool
	done := make(chan struct{})
	ok := e.Submit("k1", func(context.Context) {
		ran.Store(true)
		close(done)
	})
	require.True(t, ok)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task never ran")
	}
	assert.True(t, ran.Load())
}

func TestDuplicateSubmissionWhileInFlightIsDropped(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(4))
	defer e.Shutdown(context.Background(), time.Second)

	release := make(chan struct{})
	var calls atomic.Int32
	first := e.Submit("dup", func(ctx context.Context) {
		calls.Add(1)
		<-release
	})
	require.True(t, first)

	time.Sleep(20 * time.Millisecond)
	second := e.Submit("dup", func(context.Context) { calls.Add(1) })
	assert.False(t, second, "submission while in flight must be dropped")

	close(release)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancelRemovesQueuedTask(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(1))
	defer e.Shutdown(context.Background(), time.Second)

	block := make(chan struct{})
	require.True(t, e.Submit("busy", func(ctx context.Context) { <-block }))

	time.Sleep(20 * time.Millisecond)
	var queuedRan atomic.Bool
	require.True(t, e.Submit("queued", func(context.Context) { queuedRan.Store(true) }))

	canceled := e.Cancel("queued")
	assert.True(t, canceled)

	close(block)
	time.Sleep(50 * time.Millisecond)
	assert.False(t, queuedRan.Load())
}

func TestCancelOnRunningTaskIsNoop(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(1))
	defer e.Shutdown(context.Background(), time.Second)

	started := make(chan struct{})
	release := make(chan struct{})
	require.True(t, e.Submit("running", func(ctx context.Context) {
		close(started)
		<-release
	}))
	<-started

	assert.False(t, e.Cancel("running"))
	close(release)
}

func TestShutdownWaitsForRunningTasks(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(1))

	var finished atomic.Bool
	started := make(chan struct{})
	require.True(t, e.Submit("slow", func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}))
	<-started

	err := e.Shutdown(context.Background(), time.Second)
	require.NoError(t, err)
	assert.True(t, finished.Load())
}

func TestShutdownForciblyCancelsAfterGracePeriod(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(1))

	started := make(chan struct{})
	var canceled atomic.Bool
	require.True(t, e.Submit("stuck", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		canceled.Store(true)
	}))
	<-started

	err := e.Shutdown(context.Background(), 20*time.Millisecond)
	assert.ErrorIs(t, err, prerefresh.ErrShutdownGraceExceeded)
	assert.True(t, canceled.Load())
}

func TestSubmitAfterShutdownIsRejected(t *testing.T) {
	e := prerefresh.New()
	require.NoError(t, e.Shutdown(context.Background(), time.Second))
	assert.False(t, e.Submit("late", func(context.Context) {}))
}

func TestConcurrentSubmissionsDistinctKeysAllRun(t *testing.T) {
	e := prerefresh.New(prerefresh.WithMaxWorkers(8))
	defer e.Shutdown(context.Background(), time.Second)

	const n = 50
	var wg sync.WaitGroup
	var completed atomic.Int32
	wg.Add(n)
	for i := 0; i < n; i++ {
		key := string(rune('a' + i%26))
		go func(k string) {
			defer wg.Done()
			e.Submit(k+string(rune('0'+i%10)), func(context.Context) { completed.Add(1) })
		}(key)
	}
	wg.Wait()
	assert.Eventually(t, func() bool { return completed.Load() == n }, time.Second, 10*time.Millisecond)
}

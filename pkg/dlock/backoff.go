package dlock

import (
	"math/rand/v2"
	"time"
)

const (
	defaultRetryBaseDelay = 50 * time.Millisecond
	defaultRetryMaxDelay  = 3 * time.Second
)

// backoffWithJitter computes the delay before redsync's next retry attempt
// while a Lock call is contended (the lock is held, not merely the Redis
// connection being briefly unreachable). tries is redsync's 1-based retry
// counter. Delay grows exponentially from base, caps at max, and is
// uniformly jittered across the full window so N callers contending for
// the same key don't retry in lockstep. Total elapsed time is bounded by
// max * the configured try count (see WithTries), so a caller that sets
// both a tight tries budget and a tight max delay gets a correspondingly
// tight worst-case wait.
//
// Grounded on xcache.waitAndRetry / backoffWithJitter
// (loader_impl.go:545-650)'s exponential-backoff-with-jitter loop,
// re-homed onto redsync's own DelayFunc hook instead of a hand-rolled
// sleep loop, since redsync already owns the retry count (tries) this
// delay function is called for.
func backoffWithJitter(tries int, base, maxDelay time.Duration) time.Duration {
	if base <= 0 {
		base = defaultRetryBaseDelay
	}
	if maxDelay <= 0 {
		maxDelay = defaultRetryMaxDelay
	}
	if tries < 1 {
		tries = 1
	}

	d := base
	for i := 1; i < tries && d < maxDelay; i++ {
		d *= 2
	}
	if d > maxDelay {
		d = maxDelay
	}

	return time.Duration(rand.Int64N(int64(d))) + 1
}

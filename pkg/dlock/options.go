package dlock

import "time"

const (
	defaultExpiry    = 10 * time.Second
	defaultTries     = 8
	defaultKeyPrefix = "dlock:"
)

type lockOptions struct {
	expiry         time.Duration
	tries          int
	keyPrefix      string
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
}

func defaultLockOptions() *lockOptions {
	return &lockOptions{
		expiry:         defaultExpiry,
		tries:          defaultTries,
		keyPrefix:      defaultKeyPrefix,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
}

// LockOption configures a single Lock/TryLock acquisition.
type LockOption func(*lockOptions)

// WithExpiry sets the lock's TTL (lease length). Extend renews for this
// same duration.
func WithExpiry(d time.Duration) LockOption {
	return func(o *lockOptions) {
		if d > 0 {
			o.expiry = d
		}
	}
}

// WithTries sets how many attempts Lock makes before giving up with
// ErrLockFailed. Has no effect on TryLock, which never retries.
func WithTries(n int) LockOption {
	return func(o *lockOptions) {
		if n > 0 {
			o.tries = n
		}
	}
}

// WithRetryDelay sets the exponential-backoff-with-jitter window (§4.3,
// §4.5) used between Lock's retry attempts: delay grows from base, capped
// at max, jittered uniformly across (0, delay] on each attempt. Either
// argument <= 0 falls back to that argument's default.
func WithRetryDelay(base, max time.Duration) LockOption {
	return func(o *lockOptions) {
		if base > 0 {
			o.retryBaseDelay = base
		}
		if max > 0 {
			o.retryMaxDelay = max
		}
	}
}

// WithKeyPrefix sets the Redis key prefix prepended to every lock name.
func WithKeyPrefix(prefix string) LockOption {
	return func(o *lockOptions) {
		o.keyPrefix = prefix
	}
}

package registry

import "time"

const (
	defaultMaxSize         = 100_000
	defaultIdleTTL         = 30 * time.Minute
	defaultLockMaxActive   = 1024
	defaultLockMaxInactive = 512
)

type options struct {
	maxSize         int
	idleTTL         time.Duration
	lockMaxActive   int
	lockMaxInactive int
	wildcard        bool
}

func defaultOptions() options {
	return options{
		maxSize:         defaultMaxSize,
		idleTTL:         defaultIdleTTL,
		lockMaxActive:   defaultLockMaxActive,
		lockMaxInactive: defaultLockMaxInactive,
	}
}

// Option configures a Registry.
type Option func(*options)

// WithMaxSize bounds how many (cacheName, key) invocations are retained.
// Beyond this bound the least-recently-used entry is evicted, matching
// §4.9's "bounded" requirement.
func WithMaxSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxSize = n
		}
	}
}

// WithIdleTTL sets invocationMaxIdleTimeMs (§6): an entry unused for this
// long is eligible for cleanup by the registry's background sweep.
func WithIdleTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idleTTL = d
		}
	}
}

// WithLockPoolBounds sets the maxActive/maxInactive bounds (§4.3) of this
// registry's per-key lock pool.
func WithLockPoolBounds(maxActive, maxInactive int) Option {
	return func(o *options) {
		if maxActive > 0 {
			o.lockMaxActive = maxActive
		}
		if maxInactive > 0 {
			o.lockMaxInactive = maxInactive
		}
	}
}

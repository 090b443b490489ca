package localcache

// MinMaxCost is the smallest MaxCost accepted; anything below it thrashes
// under even light load.
const MinMaxCost = 1 * 1024 * 1024 // 1MB

type options struct {
	numCounters int64
	maxCost     int64
	bufferItems int64
}

func defaultOptions() options {
	return options{
		numCounters: 1e7,
		maxCost:     100 * 1024 * 1024,
		bufferItems: 64,
	}
}

// Option configures a Cache built via New.
type Option func(*options)

// WithNumCounters sets the frequency-tracking counter count. Ignored if
// n <= 0.
func WithNumCounters(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.numCounters = n
		}
	}
}

// WithMaxCost sets the cache's max capacity in bytes, floored at
// MinMaxCost. Ignored if cost <= 0.
func WithMaxCost(cost int64) Option {
	return func(o *options) {
		if cost > 0 {
			if cost < MinMaxCost {
				cost = MinMaxCost
			}
			o.maxCost = cost
		}
	}
}

// WithBufferItems sets ristretto's write-buffer size. Ignored if n <= 0.
func WithBufferItems(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferItems = n
		}
	}
}

package bloom

import "log/slog"

const (
	defaultBitSize       = 1 << 23 // with 3 hash functions: <1% false positives up to ~680K entries, ~2.7% at 1M
	defaultHashFunctions = 3
	defaultKeyPrefix     = "bf:cache:"
)

type options struct {
	bitSize       uint64
	hashFunctions int
	keyPrefix     string
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		bitSize:       defaultBitSize,
		hashFunctions: defaultHashFunctions,
		keyPrefix:     defaultKeyPrefix,
		logger:        slog.Default(),
	}
}

func (o options) validate() error {
	if o.bitSize == 0 {
		return ErrInvalidBitSize
	}
	if o.hashFunctions <= 0 {
		return ErrInvalidHashFunctions
	}
	return nil
}

// Option configures a Filter.
type Option func(*options)

// WithBitSize sets the number of bits in the bitset backing each cache
// name's local and remote tiers. Larger values lower the false-positive rate
// at the cost of memory and Redis hash size.
func WithBitSize(bits uint64) Option {
	return func(o *options) { o.bitSize = bits }
}

// WithHashFunctions sets how many bit positions are derived per key.
func WithHashFunctions(k int) Option {
	return func(o *options) { o.hashFunctions = k }
}

// WithKeyPrefix sets the Redis key prefix under which each cache name's
// remote hash tier is stored (final key is prefix+cacheName).
func WithKeyPrefix(prefix string) Option {
	return func(o *options) { o.keyPrefix = prefix }
}

// WithLogger sets the logger used for fail-open warnings. A nil logger
// passed here is ignored; the zero-value Filter logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

package guard

import (
	"log/slog"
	"time"

	"github.com/corewall/cacheshield/pkg/dlock"
	"github.com/corewall/cacheshield/pkg/lockpool"
)

const defaultLeaseExpiry = 10 * time.Second

type options struct {
	leaseExpiry         time.Duration
	localAcquireTimeout time.Duration
	distLockOpts        []dlock.LockOption
	logger              *slog.Logger
}

func defaultOptions() options {
	return options{
		leaseExpiry:         defaultLeaseExpiry,
		localAcquireTimeout: lockpool.DefaultAcquireTimeout,
		logger:              slog.Default(),
	}
}

// Option configures a Guard.
type Option func(*options)

// WithLeaseExpiry sets the distributed lock's lease (§4.4) acquired during
// the third check.
func WithLeaseExpiry(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.leaseExpiry = d
			o.distLockOpts = append(o.distLockOpts, dlock.WithExpiry(d))
		}
	}
}

// WithLocalAcquireTimeout bounds the second check's local-lock acquisition
// (§4.3's `tryAcquire(key, timeoutSec)`, §5's "tryAcquire on C3, default
// 10s"). d <= 0 disables the bound, so the acquire blocks on ctx alone.
func WithLocalAcquireTimeout(d time.Duration) Option {
	return func(o *options) {
		o.localAcquireTimeout = d
	}
}

// WithLogger sets the logger used for lock-timeout fall-throughs and
// write-through failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

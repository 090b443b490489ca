package manager

import (
	"log/slog"

	"github.com/corewall/cacheshield/pkg/events"
)

type options struct {
	logger    *slog.Logger
	publisher events.Publisher
}

func defaultOptions() options {
	return options{
		logger:    slog.Default(),
		publisher: events.Noop{},
	}
}

// Option configures a Manager.
type Option func(*options)

// WithLogger sets the logger used for manager-level diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPublisher sets the default EventPublisher for caches that don't
// override it in their PerCacheConfig.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

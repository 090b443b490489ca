package prerefresh

import (
	"log/slog"
	"runtime"
)

func defaultMaxWorkers() int {
	n := runtime.NumCPU() * 2
	if n < 1 {
		n = 1
	}
	return n
}

type options struct {
	maxWorkers int
	logger     *slog.Logger
}

func defaultOptions() options {
	return options{
		maxWorkers: defaultMaxWorkers(),
		logger:     slog.Default(),
	}
}

// Option configures an Executor.
type Option func(*options)

// WithMaxWorkers bounds the number of refreshes that may run concurrently.
// Defaults to runtime.NumCPU()*2.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxWorkers = n
		}
	}
}

// WithLogger sets the logger used for task panics. Dropped submissions are
// not logged; Submit reports them by returning false.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

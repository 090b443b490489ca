package localcache

import "errors"

var (
	// ErrNilClient is returned by FromClient for a nil ristretto cache.
	ErrNilClient = errors.New("localcache: nil client")

	// ErrMetricsDisabled is returned by FromClient when the supplied
	// ristretto cache was built without Metrics, so Stats cannot work.
	ErrMetricsDisabled = errors.New("localcache: metrics disabled on supplied client")

	// ErrClosed is returned by Close when called more than once.
	ErrClosed = errors.New("localcache: already closed")
)

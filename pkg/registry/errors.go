package registry

import "errors"

var (
	// ErrNilInvocation is returned by Put for a nil CachedInvocation.
	ErrNilInvocation = errors.New("registry: invocation must not be nil")

	// ErrEmptyKey is returned by Put on the cacheable registry for a blank
	// key; writes need an explicit key (§4.9). The evict registry instead
	// normalizes a blank key to the wildcard.
	ErrEmptyKey = errors.New("registry: key must not be empty")

	// ErrEmptyCacheName is returned when cacheName is blank.
	ErrEmptyCacheName = errors.New("registry: cache name must not be empty")
)

package manager

import "errors"

var (
	// ErrCacheNotRegistered is returned by Handle for a cacheName that was
	// never passed to RegisterCache.
	ErrCacheNotRegistered = errors.New("manager: cache not registered")

	// ErrAlreadyRegistered is returned by RegisterCache for a cacheName
	// that already has a configuration.
	ErrAlreadyRegistered = errors.New("manager: cache already registered")

	// ErrNoInvocation is returned when a pre-refresh fires for a key the
	// Invocation Registry has no loader for (e.g. it idle-evicted first).
	ErrNoInvocation = errors.New("manager: no cached invocation to refresh")
)

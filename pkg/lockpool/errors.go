package lockpool

import "errors"

var (
	// ErrInvalidKey is returned for an empty key.
	ErrInvalidKey = errors.New("lockpool: key must not be empty")

	// ErrLockNotHeld is returned by Handle.Release on its second and later
	// calls; Release is idempotent.
	ErrLockNotHeld = errors.New("lockpool: lock not held")

	// ErrTimeout is returned by AcquireTimeout when the lock was not
	// obtained within the given timeout (and the caller's own ctx had not
	// separately expired first).
	ErrTimeout = errors.New("lockpool: acquire timed out")

	// ErrClosed is returned once the pool has been closed.
	ErrClosed = errors.New("lockpool: closed")
)

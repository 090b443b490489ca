package dlock

import "errors"

var (
	// ErrLockHeld indicates the lock is currently held by another owner.
	// TryLock returns (nil, nil) rather than this error in normal use; it is
	// exported for callers building their own mocks around it.
	ErrLockHeld = errors.New("dlock: lock is held by another owner")

	// ErrLockFailed indicates Lock exhausted its retries without acquiring.
	ErrLockFailed = errors.New("dlock: failed to acquire lock")

	// ErrExtendFailed indicates a lease Extend call failed; the lock may
	// still be held and can be retried.
	ErrExtendFailed = errors.New("dlock: failed to extend lock")

	// ErrNotLocked indicates Unlock or Extend was called on a lock that is
	// no longer held (expired or already released).
	ErrNotLocked = errors.New("dlock: not locked")

	// ErrEmptyKey indicates a blank lock name.
	ErrEmptyKey = errors.New("dlock: key must not be empty")

	// ErrKeyTooLong indicates a lock name longer than maxKeyLength.
	ErrKeyTooLong = errors.New("dlock: key exceeds maximum length")

	// ErrFactoryClosed indicates a lock was requested after Close.
	ErrFactoryClosed = errors.New("dlock: factory is closed")
)

const maxKeyLength = 512

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(key) > maxKeyLength {
		return ErrKeyTooLong
	}
	return nil
}

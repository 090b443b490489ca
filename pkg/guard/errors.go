package guard

import (
	"errors"

	"github.com/corewall/cacheshield/pkg/dlock"
	"github.com/corewall/cacheshield/pkg/lockpool"
)

var (
	// ErrLoaderReturnedNil is returned when the origin loader reports
	// neither a value nor an error nor the null-cacheable signal: spec §4.5
	// calls this a fatal protocol violation — callers that want to cache a
	// genuine null result must route through the NullValue handler instead
	// of returning (nil, nil) straight out of the Breakdown Guard.
	ErrLoaderReturnedNil = errors.New("guard: loader returned neither a value nor an error")

	// ErrReadFailed wraps an error from the caller-supplied read function.
	ErrReadFailed = errors.New("guard: cache read failed")
)

// isBoundedLockFailure reports whether err is a §7 LockTimeout: neither the
// local nor the distributed tier was acquired within its configured bound
// (as opposed to the caller's own ctx being canceled, or some other I/O
// failure). §7 requires a LockTimeout on GET to fall through to the origin
// loader without write-through, rather than failing the whole read.
func isBoundedLockFailure(err error) bool {
	return errors.Is(err, lockpool.ErrTimeout) || errors.Is(err, dlock.ErrLockFailed)
}

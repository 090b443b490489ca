package envelope

import "errors"

var (
	// ErrEmptyCacheName is returned by Key rendering when the cache name is blank.
	ErrEmptyCacheName = errors.New("envelope: cache name must not be empty")

	// ErrInvalidVisitTimes is returned when constructing an Envelope with a
	// negative visit count.
	ErrInvalidVisitTimes = errors.New("envelope: visitTimes must be >= 0")

	// ErrCreatedAfterAccess is returned when createdTime is after
	// lastAccessTime.
	ErrCreatedAfterAccess = errors.New("envelope: createdTime must be <= lastAccessTime")

	// ErrDecodeFailed wraps an underlying decode error.
	ErrDecodeFailed = errors.New("envelope: decode failed")

	// ErrNilEnvelope is returned by Encode when given a nil Envelope.
	ErrNilEnvelope = errors.New("envelope: cannot encode nil envelope")
)

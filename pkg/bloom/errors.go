package bloom

import "errors"

var (
	// ErrInvalidBitSize is returned when a configured bit size is <= 0.
	ErrInvalidBitSize = errors.New("bloom: bit size must be positive")

	// ErrInvalidHashFunctions is returned when the configured hash function
	// count is <= 0.
	ErrInvalidHashFunctions = errors.New("bloom: hash function count must be positive")

	// ErrEmptyCacheName is returned when a cache name is blank.
	ErrEmptyCacheName = errors.New("bloom: cache name must not be empty")

	// ErrEmptyKey is returned when a key is blank.
	ErrEmptyKey = errors.New("bloom: key must not be empty")
)

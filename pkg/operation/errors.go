package operation

import "errors"

// Sentinel errors returned by Validate; all map onto spec §7's
// ConfigurationInvalid error kind, detected at registration rather than at
// read time.
var (
	ErrNoCacheNames          = errors.New("operation: at least one cache name is required")
	ErrNegativeTTL           = errors.New("operation: ttl must be >= 0")
	ErrPreRefreshNeedsTTL    = errors.New("operation: enablePreRefresh requires ttl > 0")
	ErrVarianceOutOfRange    = errors.New("operation: variance must be in [0,1]")
	ErrRandomTTLNeedsVariance = errors.New("operation: randomTtl requires variance > 0")
	ErrMissingLockName       = errors.New("operation: distributedLock requires a non-blank lock name")
	ErrThresholdOutOfRange   = errors.New("operation: preRefreshThreshold must be in (0,1)")
	ErrInvalidPreRefreshMode = errors.New("operation: preRefreshMode must be SYNC or ASYNC")
	ErrInvalidFetchStrategy  = errors.New("operation: fetchStrategy must not be blank")
)

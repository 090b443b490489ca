package operation

// PreRefreshMode selects whether a triggered pre-refresh runs synchronously
// (blocking the triggering GET) or asynchronously (the GET returns the
// stale value immediately; refresh happens in the background).
type PreRefreshMode string

const (
	PreRefreshSync  PreRefreshMode = "SYNC"
	PreRefreshAsync PreRefreshMode = "ASYNC"
)

// FetchStrategy names which strategy in the chain (§4.7) should post-process
// a read. AUTO lets the chain infer the strategy from the operation's other
// flags; any other non-empty string names a registered custom strategy.
type FetchStrategy string

const (
	FetchAuto   FetchStrategy = "AUTO"
	FetchSimple FetchStrategy = "SIMPLE"
)

// CacheOperation is the immutable descriptor for a cached method (§3).
type CacheOperation struct {
	CacheNames          []string
	KeyExpression       string
	UnlessExpression    string
	ConditionExpression string

	TTLSeconds int64
	RandomTTL  bool
	Variance   float64

	UseBloomFilter  bool
	CacheNullValues bool

	Sync                bool
	DistributedLock     bool
	DistributedLockName string
	InternalLock        bool

	EnablePreRefresh    bool
	PreRefreshThreshold float64
	PreRefreshMode      PreRefreshMode

	FetchStrategy FetchStrategy
	ReturnType    string
}

// Option configures a CacheOperation under construction.
type Option func(*CacheOperation)

// New builds a validated CacheOperation for the given cache names, applying
// opts over a zero-value default (ttl=0/eternal, no protections enabled).
// Returns a ConfigurationInvalid-class error (see errors.go) if the
// resulting descriptor violates any of the data-model invariants.
func New(cacheNames []string, opts ...Option) (*CacheOperation, error) {
	op := &CacheOperation{
		CacheNames:     append([]string(nil), cacheNames...),
		FetchStrategy:  FetchAuto,
		PreRefreshMode: PreRefreshAsync,
	}
	for _, fn := range opts {
		fn(op)
	}
	if err := op.Validate(); err != nil {
		return nil, err
	}
	return op, nil
}

// Validate checks every invariant spec §3 and §4.1 name. Called eagerly by
// New; exported so a Manager can re-validate a descriptor built by hand.
func (op *CacheOperation) Validate() error {
	if len(op.CacheNames) == 0 {
		return ErrNoCacheNames
	}
	if op.TTLSeconds < 0 {
		return ErrNegativeTTL
	}
	if op.EnablePreRefresh && op.TTLSeconds <= 0 {
		return ErrPreRefreshNeedsTTL
	}
	if op.Variance < 0 || op.Variance > 1 {
		return ErrVarianceOutOfRange
	}
	if op.RandomTTL && op.Variance <= 0 {
		return ErrRandomTTLNeedsVariance
	}
	if op.DistributedLock && op.DistributedLockName == "" {
		return ErrMissingLockName
	}
	if op.EnablePreRefresh {
		if op.PreRefreshThreshold <= 0 || op.PreRefreshThreshold >= 1 {
			return ErrThresholdOutOfRange
		}
		if op.PreRefreshMode != PreRefreshSync && op.PreRefreshMode != PreRefreshAsync {
			return ErrInvalidPreRefreshMode
		}
	}
	if op.FetchStrategy == "" {
		return ErrInvalidFetchStrategy
	}
	return nil
}

// WithKeyExpression sets the SpEL-like key expression evaluated by the
// injected ExpressionEvaluator.
func WithKeyExpression(expr string) Option {
	return func(o *CacheOperation) { o.KeyExpression = expr }
}

// WithUnless sets the unless-expression: a true result vetoes writing the
// result to cache after a successful load.
func WithUnless(expr string) Option {
	return func(o *CacheOperation) { o.UnlessExpression = expr }
}

// WithCondition sets the condition-expression: a false result makes the
// operation a pass-through, bypassing the cache entirely.
func WithCondition(expr string) Option {
	return func(o *CacheOperation) { o.ConditionExpression = expr }
}

// WithTTL sets the base TTL in seconds. 0 means never expire.
func WithTTL(seconds int64) Option {
	return func(o *CacheOperation) { o.TTLSeconds = seconds }
}

// WithRandomTTL enables Gaussian TTL jitter (§4.1) with the given variance
// in [0,1].
func WithRandomTTL(variance float64) Option {
	return func(o *CacheOperation) {
		o.RandomTTL = true
		o.Variance = variance
	}
}

// WithBloomFilter enables the penetration-protection bloom filter (§4.2) on
// reads of this operation's keys.
func WithBloomFilter() Option {
	return func(o *CacheOperation) { o.UseBloomFilter = true }
}

// WithCacheNullValues enables caching of a null origin result as the
// distinguished NullMarker (§3), defending against repeated loads of a key
// that legitimately has no value.
func WithCacheNullValues() Option {
	return func(o *CacheOperation) { o.CacheNullValues = true }
}

// WithSync requires every GET of this operation to go through the
// Breakdown Guard (§4.5), even without an explicit lock flag.
func WithSync() Option {
	return func(o *CacheOperation) { o.Sync = true }
}

// WithDistributedLock enables the cluster-wide tier of the Breakdown Guard,
// under the given logical lock name.
func WithDistributedLock(name string) Option {
	return func(o *CacheOperation) {
		o.DistributedLock = true
		o.DistributedLockName = name
	}
}

// WithInternalLock enables the local-only (in-process) tier of the
// Breakdown Guard.
func WithInternalLock() Option {
	return func(o *CacheOperation) { o.InternalLock = true }
}

// WithPreRefresh enables proactive refresh before expiry (§4.1, §4.8), firing
// once elapsed/ttl crosses 1-threshold, in the given mode.
func WithPreRefresh(threshold float64, mode PreRefreshMode) Option {
	return func(o *CacheOperation) {
		o.EnablePreRefresh = true
		o.PreRefreshThreshold = threshold
		o.PreRefreshMode = mode
	}
}

// WithFetchStrategy names which strategy the chain should select for reads
// of this operation; FetchAuto (the default) infers it from other flags.
func WithFetchStrategy(name FetchStrategy) Option {
	return func(o *CacheOperation) { o.FetchStrategy = name }
}

// WithReturnType records the declared return type, surfaced to Envelope.Type
// and used by event/metric consumers for classification.
func WithReturnType(typeName string) Option {
	return func(o *CacheOperation) { o.ReturnType = typeName }
}

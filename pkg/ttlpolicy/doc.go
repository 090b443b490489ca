// Package ttlpolicy computes effective TTLs, expiry, and pre-refresh
// eligibility for cached entries.
//
// # Design
//
// All time comparisons route through an injected clock.Clock rather than
// time.Now, matching the constructor-injection convention used across this
// module (and, upstream, xcache's Loader/xkeylock's KeyLock). None of the
// functions here hold state; Policy is a thin, reusable value.
//
// # Jitter
//
// FinalTTL draws a clamped standard-normal sample (via math/rand/v2's
// NormFloat64) rather than the uniform jitter xcache.applyTTLJitter uses,
// because the spec this package implements requires a Gaussian distribution
// clamped to [-3,3] standard deviations so that avalanche-prone synchronized
// expiry is broken up while the configured mean TTL is preserved.
package ttlpolicy

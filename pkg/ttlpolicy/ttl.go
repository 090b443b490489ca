package ttlpolicy

import (
	"math/rand/v2"

	"github.com/corewall/cacheshield/pkg/clock"
)

// gaussianClampSigma bounds the standard-normal draw used by FinalTTL to
// [-3,3], per the jitter formula this package implements.
const gaussianClampSigma = 3.0

// Policy computes TTL-derived decisions against an injected clock.
// Construct it with New. The zero value has no clock: ShouldApply and
// FinalTTL work on it, but IsExpired, RemainingTTL and ShouldPreRefresh
// panic.
type Policy struct {
	clock clock.Clock
}

// New returns a Policy driven by the given clock. A nil clock falls back to
// clock.System{}.
func New(c clock.Clock) Policy {
	if c == nil {
		c = clock.System{}
	}
	return Policy{clock: c}
}

// ShouldApply reports whether a TTL value represents an expiring entry.
// ttl == 0 means "never expire" per the data model; negative TTLs are also
// treated as non-expiring since they can only arise from a caller error.
func (Policy) ShouldApply(ttlSeconds int64) bool {
	return ttlSeconds > 0
}

// FinalTTL computes the jittered TTL to write to the store.
//
// If randomize is false or variance <= 0, base is returned unchanged.
// Otherwise variance is clamped to [0,1], a standard-normal sample g is drawn
// and clamped to [-3,3], and the result is
//
//	offset = base * variance * g / 3
//	final  = clamp(base + offset, 1, 2*base)
//
// so the final TTL always lands in [1, 2*base] while the expectation over
// many draws stays at base (the clamp is symmetric and g is zero-mean).
func (Policy) FinalTTL(baseSeconds int64, randomize bool, variance float64) int64 {
	if !randomize || variance <= 0 || baseSeconds <= 0 {
		return baseSeconds
	}
	if variance > 1 {
		variance = 1
	}

	g := rand.NormFloat64()
	if g > gaussianClampSigma {
		g = gaussianClampSigma
	} else if g < -gaussianClampSigma {
		g = -gaussianClampSigma
	}

	offset := float64(baseSeconds) * variance * g / gaussianClampSigma
	final := int64(float64(baseSeconds) + offset)

	if final < 1 {
		final = 1
	}
	if max := 2 * baseSeconds; final > max {
		final = max
	}
	return final
}

// IsExpired reports whether an entry created at createdMs with ttlSeconds is
// expired as of now. ttlSeconds <= 0 means eternal, so it never expires.
func (p Policy) IsExpired(createdMs int64, ttlSeconds int64) bool {
	if ttlSeconds <= 0 {
		return false
	}
	elapsedMs := p.clock.NowMillis() - createdMs
	return elapsedMs > ttlSeconds*1000
}

// RemainingTTL returns the seconds remaining before expiry, or -1 for an
// eternal entry (ttlSeconds <= 0). Never negative otherwise.
func (p Policy) RemainingTTL(createdMs int64, ttlSeconds int64) int64 {
	if ttlSeconds <= 0 {
		return -1
	}
	elapsedSeconds := (p.clock.NowMillis() - createdMs) / 1000
	remaining := ttlSeconds - elapsedSeconds
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ShouldPreRefresh reports whether an entry is close enough to expiry that a
// pre-refresh should be triggered: true iff ttlSeconds > 0, threshold is in
// (0,1), and the fraction of life elapsed is >= 1-threshold.
func (p Policy) ShouldPreRefresh(createdMs int64, ttlSeconds int64, threshold float64) bool {
	if ttlSeconds <= 0 || threshold <= 0 || threshold >= 1 {
		return false
	}
	elapsedMs := p.clock.NowMillis() - createdMs
	if elapsedMs < 0 {
		return false
	}
	totalMs := ttlSeconds * 1000
	elapsedFraction := float64(elapsedMs) / float64(totalMs)
	return elapsedFraction >= 1-threshold
}

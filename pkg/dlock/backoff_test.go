package dlock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffWithJitter_BoundedByMax(t *testing.T) {
	base := 10 * time.Millisecond
	max := 100 * time.Millisecond

	for tries := 1; tries <= 20; tries++ {
		for i := 0; i < 50; i++ {
			d := backoffWithJitter(tries, base, max)
			require.Greater(t, d, time.Duration(0))
			require.LessOrEqual(t, d, max)
		}
	}
}

func TestBackoffWithJitter_GrowsWithTries(t *testing.T) {
	base := 10 * time.Millisecond
	max := 10 * time.Second

	// backoffWithJitter is randomized, so compare the deterministic upper
	// bound it draws from (2^(tries-1) * base, capped at max) rather than
	// individual draws.
	upperBound := func(tries int) time.Duration {
		d := base
		for i := 1; i < tries && d < max; i++ {
			d *= 2
		}
		if d > max {
			d = max
		}
		return d
	}

	require.Equal(t, base, upperBound(1))
	require.Equal(t, 2*base, upperBound(2))
	require.Equal(t, 4*base, upperBound(3))

	for tries := 1; tries <= 3; tries++ {
		for i := 0; i < 50; i++ {
			require.LessOrEqual(t, backoffWithJitter(tries, base, max), upperBound(tries))
		}
	}
}

func TestBackoffWithJitter_DefaultsOnNonPositiveInputs(t *testing.T) {
	d := backoffWithJitter(0, 0, 0)
	require.Greater(t, d, time.Duration(0))
	require.LessOrEqual(t, d, defaultRetryMaxDelay)
}

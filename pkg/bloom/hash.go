package bloom

import "github.com/cespare/xxhash/v2"

// positions computes the k bit indices for key under the Kirsch-Mitzenmacher
// double-hashing scheme: position[i] = (h1 + i*h2) mod bitSize. Two
// independent seeds are produced by hashing the key itself and the key with
// a one-byte suffix, avoiding the cost of k separate hash functions.
func positions(key string, k int, bitSize uint64) []uint64 {
	h1 := xxhash.Sum64String(key)
	h2 := xxhash.Sum64String(key + "\x01")
	if h2 == 0 {
		// a zero second hash would collapse every position to h1 mod bitSize
		h2 = 1
	}

	out := make([]uint64, k)
	for i := 0; i < k; i++ {
		out[i] = (h1 + uint64(i)*h2) % bitSize
	}
	return out
}

package bloom

import "testing"

// FuzzPositions checks that positions never produces an out-of-range index
// or panics, regardless of key content, across varying bit sizes and hash
// counts.
func FuzzPositions(f *testing.F) {
	f.Add("", 3, uint64(1<<10))
	f.Add("hello", 3, uint64(1<<10))
	f.Add("\x00\x01\xff", 1, uint64(64))
	f.Add("a-fairly-long-key-with-separators::and::colons", 8, uint64(1<<20))

	f.Fuzz(func(t *testing.T, key string, k int, bitSize uint64) {
		if k <= 0 || k > 32 {
			k = 3
		}
		if bitSize == 0 {
			bitSize = 1 << 10
		}

		pos := positions(key, k, bitSize)
		if len(pos) != k {
			t.Fatalf("positions returned %d entries, want %d", len(pos), k)
		}
		for _, p := range pos {
			if p >= bitSize {
				t.Fatalf("position %d out of range for bitSize %d", p, bitSize)
			}
		}
	})
}

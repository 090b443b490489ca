// Package bloom implements the two-tier (local + distributed) bloom filter
// that short-circuits lookups of keys that can never be cached entries,
// defending the origin against penetration.
//
// # Contract
//
// False positives are allowed; false negatives are forbidden. Any key that
// was ever Add-ed must report MightContain == true until the owning cache
// name is Cleared. On any internal failure (a broken local bitset, a Redis
// error on the remote tier), MightContain fails open and returns true: a
// broken bloom filter must never manufacture a false miss, so the worst case
// of a failure here is a stampede through, never a correctness loss.
//
// # Two-tier composition
//
// Add always writes both the in-process bitset and the Redis-backed hash.
// MightContain checks the local bitset first (no network round-trip); on a
// local miss it consults the remote tier, and on a remote hit it warms the
// local bitset so the next lookup for the same key avoids Redis entirely.
// Clear resets both tiers.
//
// # Hashing
//
// Bit positions are derived by double hashing: two independent 64-bit hashes
// of the key are combined as h1 + i*h2 (mod bitSize) for i in [0,k), the
// classic Kirsch-Mitzenmacher construction. github.com/cespare/xxhash/v2
// supplies both hashes (a small, dependency-light, high-quality non-cryptographic
// hash already present in the retrieval pack via ristretto and miniredis);
// no suitable bloom-filter library appeared anywhere in the pack, so the bit
// manipulation here is hand-rolled over the standard library, grounded on
// xlru's bit-level-adjacent cache-line padding arithmetic for the general
// style of doing bit math explicitly rather than reaching for reflection.
package bloom

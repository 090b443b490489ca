// Package localcache is the optional in-process near-cache tier in front of
// Redis: a ristretto.Cache[string, []byte] wrapped with the value-added
// Stats/Wait/Close surface ristretto itself omits.
//
// Grounded on xcache's Memory/memoryWrapper (pkg/storage/xcache/memory.go,
// xcache.go): same NumCounters/MaxCost/BufferItems knobs, same
// owned-vs-borrowed Close semantics, same Metrics-gated Stats(). A cache
// hit here never touches Redis, which is the point: it absorbs the hottest
// keys so the avalanche/breakdown protections downstream see a smaller
// share of traffic.
package localcache

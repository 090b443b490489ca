// Package registry implements the Invocation Registry (C9): a bounded
// (cacheName, key) -> CachedInvocation directory with idle-TTL eviction,
// plus the per-key local lock provider the Breakdown Guard and lock pool
// (C3) consume.
package registry

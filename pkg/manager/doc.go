// Package manager implements the Cache Manager (C10, §4.10): it owns a
// cacheName → CacheHandle map built lazily from a registered configuration
// table, wiring each cache's writer chain, bloom state, lock pool,
// invocation registry, and fetch strategy chain around the shared Redis
// client, distributed lock, and pre-refresh executor.
package manager

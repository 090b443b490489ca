// Package writer implements the Cache Writer Handler Chain (C8, §4.6): the
// GET / PUT / PUT_IF_ABSENT / EVICT / CLEAN pipeline wrapped around Redis
// operations, in the fixed handler order BloomFilter, SyncLock, TTL,
// NullValue, DelayedDoubleDelete, ActualCache.
//
// Errors from any handler propagate as-is; only ActualCacheHandler may
// downgrade a read failure to a reported miss, after logging it.
package writer

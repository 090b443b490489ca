// Package lockpool implements the bounded in-process lock directory used to
// serialize concurrent loads of the same cache key within one process,
// before any distributed lock is considered.
//
// Grounded on xkeylock's channel-as-mutex entry design (a size-1 buffered
// channel: a successful send is an acquire, a receive is a release), this
// package additionally bounds the directory with a two-list active/inactive
// LRU: active holds the maxActive most recently touched keys; once full, a
// brand-new or promoted key evicts the first evictable candidate found
// scanning from the active tail, demoting it into the capped inactive list
// rather than dropping it outright, so a key that cycles hot/cold doesn't
// pay map-allocation cost on every cycle. An entry is evictable exactly when
// it is not held and has no queued waiters; if none is evictable the active
// list may exceed maxActive transiently.
package lockpool

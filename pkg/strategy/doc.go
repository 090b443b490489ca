// Package strategy implements the Fetch Strategy Chain (C7, §4.7).
//
// A Chain compiles an ordered, cached list of Strategy values per
// CacheOperation signature and applies them in priority order against a
// single read's Context. Bloom short-circuits definite misses; PreRefresh
// triggers background refreshes for keys nearing expiry; Simple is the
// always-present terminal fallback. Custom strategies may be registered
// by name and selected via CacheOperation.FetchStrategy.
package strategy

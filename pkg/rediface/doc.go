// Package rediface defines the narrow Redis contract the rest of
// cacheshield depends on, and a concrete adapter over go-redis.
//
// Apart from pkg/dlock, whose redsync adapter takes go-redis clients
// directly, the core engine never imports github.com/redis/go-redis/v9
// outside this package: every other component that needs Redis (the bloom filter's remote
// tier, the writer chain's ActualCache handler, the envelope store) takes a
// rediface.Client interface, the same "consume a narrow adapter, expose the
// underlying client too" shape xcache.Redis uses for go-redis and ristretto.
//
// Client intentionally does not expose the full go-redis API: it enumerates
// a fixed set of operations (get, set, setIfAbsent, del, hSet, hGet, hDel,
// expire, pttl, keys, scan, eval), so a test double or a future
// non-go-redis backend only has twelve methods to implement.
package rediface

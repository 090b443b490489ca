// Package dlock provides the distributed lock used to serialize cache
// reloads across multiple processes guarding the same Redis-backed cache.
//
// Grounded on xdlock's redis.go factory/handle split and redsync wiring:
// github.com/go-redsync/redsync/v4 supplies the Redlock algorithm, with the
// go-redis/v9 adapter bridging it to go-redis clients passed to New (the
// same kind of client rediface.NewGoRedis wraps elsewhere in this module). Handle carries a unique identity per
// acquisition so Unlock/Extend can never affect a lock some other goroutine
// or process holds, mirroring xdlock's LockHandle design.
package dlock

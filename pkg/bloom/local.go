package bloom

import "sync"

// localTier is the in-process bitset tier, one bitset per cache name.
// Per-cache-name bit array operations are guarded by that cache's own
// mutex so unrelated caches never contend with each other.
type localTier struct {
	bitSize uint64

	mu    sync.Mutex // guards the map itself, not individual bitsets
	sets  map[string]*bitset
}

type bitset struct {
	mu    sync.Mutex
	words []uint64
}

func newLocalTier(bitSize uint64) *localTier {
	return &localTier{
		bitSize: bitSize,
		sets:    make(map[string]*bitset),
	}
}

func (l *localTier) setFor(cacheName string) *bitset {
	l.mu.Lock()
	defer l.mu.Unlock()

	bs, ok := l.sets[cacheName]
	if !ok {
		bs = &bitset{words: make([]uint64, (l.bitSize+63)/64)}
		l.sets[cacheName] = bs
	}
	return bs
}

// add sets every bit in positions for cacheName.
func (l *localTier) add(cacheName string, positions []uint64) {
	bs := l.setFor(cacheName)
	bs.mu.Lock()
	defer bs.mu.Unlock()
	for _, p := range positions {
		bs.words[p/64] |= 1 << (p % 64)
	}
}

// mightContain reports whether every bit in positions is set for cacheName.
func (l *localTier) mightContain(cacheName string, positions []uint64) bool {
	bs := l.setFor(cacheName)
	bs.mu.Lock()
	defer bs.mu.Unlock()
	for _, p := range positions {
		if bs.words[p/64]&(1<<(p%64)) == 0 {
			return false
		}
	}
	return true
}

// clear discards the bitset for cacheName, effectively resetting it to all
// zero bits on next use.
func (l *localTier) clear(cacheName string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sets, cacheName)
}

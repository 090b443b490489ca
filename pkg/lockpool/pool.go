package lockpool

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Handle represents a held lock. Release is idempotent: the first call
// releases the lock and returns nil, later calls return ErrLockNotHeld.
type Handle interface {
	Release() error
	Key() string
}

// entry is one key's lock state. ch is a size-1 buffered channel used as a
// mutex: a successful send is an acquire, a receive is a release.
type entry struct {
	key     string
	ch      chan struct{}
	waiters atomic.Int32
}

func newEntry(key string) *entry {
	return &entry{key: key, ch: make(chan struct{}, 1)}
}

func (e *entry) canEvict() bool {
	return len(e.ch) == 0 && e.waiters.Load() == 0
}

// Pool is a bounded, in-process keyed lock directory with two-list
// (active/inactive) eviction (§4.3): active is an LRU of the most recently
// touched keys, bounded by maxActive; inactive is the overflow beyond that,
// bounded by maxInactive. An entry moves active -> inactive only when
// active overflows and a candidate is found to evict, never merely because
// it went idle: a held or queued-on entry is never evicted from either
// list, so the pool may transiently exceed its soft bounds rather than
// lose a lock out from under a waiter.
type Pool struct {
	opts options

	mu          sync.Mutex
	active      *list.List // of *entry, front = most recently touched
	activeIndex map[string]*list.Element
	inactive    *list.List // of *entry, front = most recently demoted
	inIndex     map[string]*list.Element
	closed      bool
	done        chan struct{}
}

// New builds a Pool.
func New(opts ...Option) *Pool {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Pool{
		opts:        o,
		active:      list.New(),
		activeIndex: make(map[string]*list.Element),
		inactive:    list.New(),
		inIndex:     make(map[string]*list.Element),
		done:        make(chan struct{}),
	}
}

// acquireEntry finds or creates the entry for key, touches it to the
// active head (promoting from inactive or cascading an eviction if
// active is full), and increments its waiter count. The caller must
// eventually release the waiter count via finishWait, win or lose the
// race for the channel.
func (p *Pool) acquireEntry(key string) (*entry, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	if el, ok := p.activeIndex[key]; ok {
		p.active.MoveToFront(el)
		e := el.Value.(*entry)
		e.waiters.Add(1)
		return e, nil
	}

	if el, ok := p.inIndex[key]; ok {
		p.inactive.Remove(el)
		delete(p.inIndex, key)
		e := el.Value.(*entry)
		p.pushActiveFront(e)
		e.waiters.Add(1)
		return e, nil
	}

	e := newEntry(key)
	p.pushActiveFront(e)
	e.waiters.Add(1)
	return e, nil
}

// pushActiveFront inserts e at the active head and, if that overflows
// maxActive, evicts the first evictable candidate found scanning from the
// active tail toward the head, demoting it to the inactive head. If no
// evictable candidate exists the list is left over its soft bound: a held
// or waited-on entry is never evicted. Must be called with p.mu held.
func (p *Pool) pushActiveFront(e *entry) {
	el := p.active.PushFront(e)
	p.activeIndex[e.key] = el

	if p.opts.maxActive <= 0 {
		return
	}
	for p.active.Len() > p.opts.maxActive {
		victimEl := p.findEvictableActive()
		if victimEl == nil {
			return
		}
		victim := victimEl.Value.(*entry)
		p.active.Remove(victimEl)
		delete(p.activeIndex, victim.key)
		p.demoteToInactive(victim)
	}
}

// findEvictableActive scans the active list from tail to head for the
// first entry that is neither held nor has queued waiters. Returns nil if
// no such entry exists.
func (p *Pool) findEvictableActive() *list.Element {
	for el := p.active.Back(); el != nil; el = el.Prev() {
		if el.Value.(*entry).canEvict() {
			return el
		}
	}
	return nil
}

// demoteToInactive moves victim to the inactive head, trimming the
// inactive list's tail (dropping entries outright, not re-demoting them)
// if that overflows maxInactive. Must be called with p.mu held.
func (p *Pool) demoteToInactive(victim *entry) {
	if p.opts.maxInactive <= 0 {
		return
	}
	el := p.inactive.PushFront(victim)
	p.inIndex[victim.key] = el
	for p.inactive.Len() > p.opts.maxInactive {
		back := p.inactive.Back()
		if back == nil {
			break
		}
		dropped := back.Value.(*entry)
		p.inactive.Remove(back)
		delete(p.inIndex, dropped.key)
	}
}

// finishWait is called after the select on e.ch resolves, win or lose. It
// only decrements the waiter count: an idle entry stays in whichever list
// it's already in until an eviction cascade (§4.3) demotes or drops it.
func (p *Pool) finishWait(e *entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e.waiters.Add(-1)
}

// Acquire blocks until the lock for key is obtained or ctx is done.
func (p *Pool) Acquire(ctx context.Context, key string) (Handle, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e, err := p.acquireEntry(key)
	if err != nil {
		return nil, err
	}

	select {
	case e.ch <- struct{}{}:
		p.mu.Lock()
		e.waiters.Add(-1)
		p.mu.Unlock()
		return &handle{pool: p, entry: e}, nil
	case <-ctx.Done():
		p.finishWait(e)
		return nil, ctx.Err()
	case <-p.done:
		p.finishWait(e)
		return nil, ErrClosed
	}
}

// AcquireTimeout blocks until the lock for key is obtained, ctx is done, or
// timeout elapses, whichever comes first. This is §4.3's
// `tryAcquire(key, timeoutSec)`, bounded per §5 by a default of 10s
// (DefaultAcquireTimeout) when the caller does not supply its own bound.
// A timeout <= 0 disables the internal bound and behaves exactly like
// Acquire. If the internal bound expires before ctx does, AcquireTimeout
// returns ErrTimeout rather than ctx's own context.DeadlineExceeded, so
// callers can distinguish "the pool made us wait too long" from "you
// canceled on us".
func (p *Pool) AcquireTimeout(ctx context.Context, key string, timeout time.Duration) (Handle, error) {
	if timeout <= 0 {
		return p.Acquire(ctx, key)
	}

	boundedCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	h, err := p.Acquire(boundedCtx, key)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, ErrTimeout
	}
	return h, err
}

// TryAcquire attempts to obtain the lock without blocking. A nil handle and
// nil error means the lock is currently held by someone else.
func (p *Pool) TryAcquire(key string) (Handle, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	e, err := p.acquireEntry(key)
	if err != nil {
		return nil, err
	}

	select {
	case e.ch <- struct{}{}:
		p.mu.Lock()
		e.waiters.Add(-1)
		p.mu.Unlock()
		return &handle{pool: p, entry: e}, nil
	default:
		p.finishWait(e)
		return nil, nil
	}
}

// Len returns the number of keys currently tracked in the active list.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active.Len()
}

// Close closes the pool. Already-held locks remain valid and must still be
// released; subsequent Acquire/TryAcquire calls return ErrClosed.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.closed = true
	p.mu.Unlock()
	close(p.done)
	return nil
}

type handle struct {
	pool    *Pool
	entry   *entry
	release atomic.Bool
}

func (h *handle) Release() error {
	if !h.release.CompareAndSwap(false, true) {
		return ErrLockNotHeld
	}
	<-h.entry.ch
	return nil
}

func (h *handle) Key() string { return h.entry.key }

var _ Handle = (*handle)(nil)

package events

import (
	"context"
	"log/slog"
	"sync"
)

const defaultQueueSize = 1024

// AsyncPublisher wraps a Publisher with a bounded queue and a single
// dispatcher goroutine, so Publish never blocks the caller on the
// downstream sink. A full queue drops the event (logging the first drop and
// every 100th drop after it) rather than applying backpressure: an event bus is instrumentation,
// not a delivery guarantee, and a blocked Publish would turn an
// observability sink into a correctness hazard on the read/write path.
type AsyncPublisher struct {
	next   Publisher
	queue  chan Event
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup

	dropMu      sync.Mutex
	droppedSinceLog int
}

// NewAsync starts an AsyncPublisher forwarding to next. queueSize <= 0 uses
// defaultQueueSize.
func NewAsync(next Publisher, queueSize int, logger *slog.Logger) *AsyncPublisher {
	if next == nil {
		next = Noop{}
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &AsyncPublisher{
		next:   next,
		queue:  make(chan Event, queueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

func (p *AsyncPublisher) run() {
	defer p.wg.Done()
	for {
		select {
		case ev := <-p.queue:
			p.next.Publish(context.Background(), ev)
		case <-p.done:
			// Drain whatever is already queued before exiting.
			for {
				select {
				case ev := <-p.queue:
					p.next.Publish(context.Background(), ev)
				default:
					return
				}
			}
		}
	}
}

// Publish enqueues ev for asynchronous delivery. Never blocks: a full queue
// drops the event.
func (p *AsyncPublisher) Publish(_ context.Context, ev Event) {
	select {
	case p.queue <- ev:
	default:
		p.noteDropped()
	}
}

func (p *AsyncPublisher) noteDropped() {
	p.dropMu.Lock()
	p.droppedSinceLog++
	n := p.droppedSinceLog
	p.dropMu.Unlock()
	if n == 1 || n%100 == 0 {
		p.logger.Warn("events: queue full, dropping event", "dropped_total", n)
	}
}

// Close stops the dispatcher after draining the current queue contents.
func (p *AsyncPublisher) Close() {
	p.closeOnce.Do(func() { close(p.done) })
	p.wg.Wait()
}

var _ Publisher = (*AsyncPublisher)(nil)

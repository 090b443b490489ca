// Package events implements the optional, best-effort EventPublisher
// contract (§6): CACHE_HIT, CACHE_MISS, CACHE_PUT, CACHE_EVICT, CACHE_CLEAR,
// CACHE_EXPIRED, CACHE_ERROR, PRE_REFRESH_TRIGGERED.
//
// Grounded on xmetrics' attrs.go: events carry their fields as typed struct
// members rather than a free-form map, so a Publisher can turn one into
// slog.Attr or an OTel span attribute without reflection. Delivery is
// asynchronous and lossy under backpressure, matching the spec's
// "best-effort" requirement: a slow or wedged Publisher must never make a
// cache read or write block on it.
package events

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Type enumerates the event kinds the engine publishes.
type Type string

const (
	CacheHit           Type = "CACHE_HIT"
	CacheMiss          Type = "CACHE_MISS"
	CachePut           Type = "CACHE_PUT"
	CacheEvict         Type = "CACHE_EVICT"
	CacheClear         Type = "CACHE_CLEAR"
	CacheExpired       Type = "CACHE_EXPIRED"
	CacheError         Type = "CACHE_ERROR"
	PreRefreshTriggered Type = "PRE_REFRESH_TRIGGERED"
)

// Event is one published occurrence. Reason is a short machine-readable
// cause (e.g. "bloom" for a bloom-rejected miss, see §8 S2); Err is set only
// for CacheError.
type Event struct {
	ID        string
	Type      Type
	CacheName string
	Key       string
	Reason    string
	Err       error
}

// Publisher delivers events. Implementations must not block the caller for
// long; Publish is expected to be called on the hot read/write path.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// New builds an Event with a fresh correlation ID.
func New(typ Type, cacheName, key, reason string, err error) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		CacheName: cacheName,
		Key:       key,
		Reason:    reason,
		Err:       err,
	}
}

// Noop discards every event. It is the default Publisher everywhere in this
// module, matching the spec's "optional" EventPublisher contract.
type Noop struct{}

func (Noop) Publish(context.Context, Event) {}

var _ Publisher = Noop{}

// LogPublisher logs every event via slog at Debug (or Error, for CacheError)
// level. Useful for local development; production
// callers typically supply their own Publisher wired to metrics/tracing.
type LogPublisher struct {
	Logger *slog.Logger
}

func (p LogPublisher) Publish(_ context.Context, ev Event) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	attrs := []any{
		slog.String("event", string(ev.Type)),
		slog.String("cache", ev.CacheName),
		slog.String("key", ev.Key),
	}
	if ev.Reason != "" {
		attrs = append(attrs, slog.String("reason", ev.Reason))
	}
	if ev.Err != nil {
		attrs = append(attrs, slog.Any("error", ev.Err))
		logger.Error("cache event", attrs...)
		return
	}
	logger.Debug("cache event", attrs...)
}

var _ Publisher = LogPublisher{}

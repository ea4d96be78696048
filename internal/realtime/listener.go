package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"ziorum/internal/catalog"
	"ziorum/internal/store"
)

// VenueChannel is the NOTIFY channel the venues trigger publishes on.
const VenueChannel = "venue_changes"

// notification is the trigger payload. It stays id-only on purpose:
// NOTIFY payloads are size-limited, so the listener re-reads the row.
type notification struct {
	Op string `json:"op"`
	ID string `json:"id"`
}

// Event is what ws clients receive.
type Event struct {
	Op    string       `json:"op"`
	ID    string       `json:"id"`
	Venue *store.Venue `json:"venue,omitempty"`
}

// Listener consumes venue change notifications from postgres, applies
// them to the catalog and broadcasts them on the hub.
type Listener struct {
	pq      *pq.Listener
	catalog *catalog.Service
	venues  interface {
		GetByID(context.Context, string) (*store.Venue, error)
	}
	hub    *Hub
	logger *zap.SugaredLogger
}

func NewListener(dsn string, cat *catalog.Service, storage store.Storage, hub *Hub, logger *zap.SugaredLogger) *Listener {
	l := &Listener{catalog: cat, venues: storage.Venues, hub: hub, logger: logger}
	l.pq = pq.NewListener(dsn, 2*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			logger.Errorw("venue listener connection event", "event", ev, "error", err)
		}
	})
	return l
}

// Run listens until the context is cancelled. Reconnection is handled by
// the underlying listener with its min/max backoff; after a reconnect the
// next notification simply resumes the stream (changes missed while
// disconnected surface on the next snapshot reload).
func (l *Listener) Run(ctx context.Context) error {
	if err := l.pq.Listen(VenueChannel); err != nil {
		return err
	}
	defer l.pq.Close()

	l.logger.Infow("venue change listener started", "channel", VenueChannel)

	for {
		select {
		case n := <-l.pq.Notify:
			if n == nil {
				// nil notifications signal a reconnect
				continue
			}
			l.handle(ctx, n.Extra)

		case <-time.After(90 * time.Second):
			// Periodic liveness check keeps half-dead connections from
			// silently stalling the feed.
			go l.pq.Ping()

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Listener) handle(ctx context.Context, payload string) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		l.logger.Errorw("bad venue notification payload", "payload", payload, "error", err)
		return
	}

	event := Event{Op: n.Op, ID: n.ID}

	switch n.Op {
	case catalog.ChangeInsert, catalog.ChangeUpdate:
		venue, err := l.venues.GetByID(ctx, n.ID)
		if err != nil {
			l.logger.Errorw("venue notification row fetch failed", "id", n.ID, "error", err)
			return
		}
		l.catalog.ApplyVenueChange(n.Op, n.ID, venue)
		event.Venue = venue

	case catalog.ChangeDelete:
		l.catalog.ApplyVenueChange(n.Op, n.ID, nil)

	default:
		l.logger.Warnw("unknown venue notification op", "op", n.Op)
		return
	}

	if msg, err := json.Marshal(event); err == nil {
		l.hub.Broadcast(msg)
	}
}

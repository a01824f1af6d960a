package sector

import (
	"sync"

	"github.com/holemap/holemap/internal/model"
)

// ProgressListener receives progress notifications from the Hub. Both
// callbacks are invoked synchronously on the goroutine that performed the
// mutation, after the mutation completed, so a listener that immediately
// calls back into SectorProgress/OverallProgress sees state consistent
// with the notification it just received.
type ProgressListener interface {
	OnSectorProgress(q model.Quadrant, agg model.SectorAggregate)
	OnOverallProgress(overall model.OverallAggregate)
}

// Hub fans progress events out to the registered listeners: the overview
// panel, the detail canvas, and the panorama view all observe the same
// stream. Every accepted update produces exactly one sector and one
// overall notification per listener, delivered in registration order with
// no batching or coalescing; throttling is a consumer concern.
type Hub struct {
	mu        sync.Mutex
	listeners []ProgressListener
}

// NewHub creates a hub with no listeners.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a listener. Subscribing the same listener twice is
// ignored.
func (h *Hub) Subscribe(l ProgressListener) {
	if l == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, existing := range h.listeners {
		if existing == l {
			return
		}
	}
	h.listeners = append(h.listeners, l)
}

// Unsubscribe removes a listener; unknown listeners are ignored.
func (h *Hub) Unsubscribe(l ProgressListener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, existing := range h.listeners {
		if existing == l {
			h.listeners = append(h.listeners[:i], h.listeners[i+1:]...)
			return
		}
	}
}

// PublishSectorUpdate delivers a per-quadrant update to all listeners in
// registration order.
func (h *Hub) PublishSectorUpdate(q model.Quadrant, agg model.SectorAggregate) {
	for _, l := range h.snapshot() {
		l.OnSectorProgress(q, agg)
	}
}

// PublishOverallUpdate delivers an overall update to all listeners in
// registration order.
func (h *Hub) PublishOverallUpdate(overall model.OverallAggregate) {
	for _, l := range h.snapshot() {
		l.OnOverallProgress(overall)
	}
}

// snapshot copies the listener list so callbacks can subscribe or
// unsubscribe without invalidating the iteration in flight.
func (h *Hub) snapshot() []ProgressListener {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]ProgressListener, len(h.listeners))
	copy(out, h.listeners)
	return out
}

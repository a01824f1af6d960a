package sector

import (
	"log/slog"
	"sync"

	"github.com/holemap/holemap/internal/model"
)

// holeEntry is the aggregator's back-reference to a loaded hole: its
// quadrant assignment and last known status. The hole itself stays owned
// by the caller's collection; only the identifier ties the two together.
type holeEntry struct {
	quadrant model.Quadrant
	status   model.HoleStatus
}

// Aggregator owns the authoritative per-quadrant and overall progress
// counts and keeps them consistent with individual hole statuses.
//
// All mutating operations take an internal mutex, so a background feeder
// (simulation ticker or hardware callback) may call UpdateHoleStatus
// without external locking. Notifications go out after the lock is
// released: with a single feeder they arrive in call order, but
// concurrent feeders may observe reordered notifications. Nothing is
// coalesced or deferred.
type Aggregator struct {
	mu      sync.Mutex
	log     *slog.Logger
	hub     *Hub
	center  model.Point2D
	entries map[string]*holeEntry
	sectors [model.QuadrantCount]model.SectorAggregate
	loaded  bool
}

// NewAggregator creates an empty aggregator publishing through hub.
// A nil hub gets a private one and a nil logger falls back to
// slog.Default(), so the engine is usable standalone in tests.
func NewAggregator(hub *Hub, log *slog.Logger) *Aggregator {
	if hub == nil {
		hub = NewHub()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{
		log: log,
		hub: hub,
	}
}

// Load replaces all aggregator state from the given hole collection:
// the center is recomputed, every hole is assigned a quadrant, and the
// sector counts are rebuilt from the holes' current statuses. Prior state
// is fully discarded, so reloading with a new collection leaks nothing
// from the old one. An empty collection is valid and leaves all totals
// at zero.
func (g *Aggregator) Load(holes []model.Hole) {
	g.mu.Lock()

	g.center = ComputeCenter(holes)
	g.entries = make(map[string]*holeEntry, len(holes))
	for q := range g.sectors {
		g.sectors[q] = model.SectorAggregate{Quadrant: model.Quadrant(q)}
	}

	for _, h := range holes {
		if _, dup := g.entries[h.ID]; dup {
			g.log.Warn("duplicate hole id in load, keeping first", "id", h.ID)
			continue
		}
		q := AssignQuadrant(h.Center, g.center)
		g.entries[h.ID] = &holeEntry{quadrant: q, status: h.Status}
		agg := &g.sectors[q]
		agg.Total++
		g.applyStatus(agg, h.Status, +1)
	}
	g.loaded = true

	sectors := g.sectors
	overall := g.overallLocked()
	g.mu.Unlock()

	// Publishing the initial aggregates lets consumers that subscribed
	// before the load render without a pull. Publish happens outside the
	// lock so a listener may pull back into the aggregator.
	for q := range sectors {
		g.hub.PublishSectorUpdate(model.Quadrant(q), sectors[q])
	}
	g.hub.PublishOverallUpdate(overall)
}

// Center returns the reference point computed by the last Load.
func (g *Aggregator) Center() model.Point2D {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.center
}

// QuadrantOf returns the quadrant assigned to a hole at the last Load.
func (g *Aggregator) QuadrantOf(holeID string) (model.Quadrant, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[holeID]
	if !ok {
		return 0, false
	}
	return e.quadrant, true
}

// UpdateHoleStatus records a status change for one hole and publishes the
// affected sector aggregate followed by the overall aggregate.
//
// The bucket matching the previous status is decremented and the bucket
// matching the new status incremented, leaving Total untouched, so manual
// corrections (including A→B→A round trips) cannot drift the counts.
// Calls before Load or with an unknown id are logged and ignored:
// detection pipelines race with reloads, and a stale event must never
// crash the host application. Runs in O(1).
func (g *Aggregator) UpdateHoleStatus(holeID string, status model.HoleStatus) {
	g.mu.Lock()

	if !g.loaded {
		g.mu.Unlock()
		g.log.Warn("status update before load ignored", "id", holeID, "status", status.String())
		return
	}
	e, ok := g.entries[holeID]
	if !ok {
		g.mu.Unlock()
		g.log.Warn("status update for unknown hole ignored", "id", holeID, "status", status.String())
		return
	}

	agg := &g.sectors[e.quadrant]
	g.applyStatus(agg, e.status, -1)
	g.applyStatus(agg, status, +1)
	e.status = status

	q := e.quadrant
	sectorCopy := *agg
	overall := g.overallLocked()
	g.mu.Unlock()

	g.hub.PublishSectorUpdate(q, sectorCopy)
	g.hub.PublishOverallUpdate(overall)
}

// SectorProgress returns a snapshot of one quadrant's aggregate. The
// returned value is a copy; mutating it cannot corrupt the aggregator.
func (g *Aggregator) SectorProgress(q model.Quadrant) model.SectorAggregate {
	g.mu.Lock()
	defer g.mu.Unlock()
	if q < 0 || int(q) >= model.QuadrantCount {
		return model.SectorAggregate{Quadrant: q}
	}
	return g.sectors[q]
}

// OverallProgress sums the four sector aggregates. O(1): there are always
// exactly four.
func (g *Aggregator) OverallProgress() model.OverallAggregate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.overallLocked()
}

func (g *Aggregator) overallLocked() model.OverallAggregate {
	var o model.OverallAggregate
	for q := range g.sectors {
		o.Add(g.sectors[q])
	}
	return o
}

// applyStatus adjusts the count bucket for status by delta (+1 or -1) and
// re-derives Completed from the terminal buckets. A decrement that would
// go negative indicates an upstream double-transition bug; the bucket is
// clamped at zero and the condition logged rather than raised, keeping
// the UI responsive.
func (g *Aggregator) applyStatus(agg *model.SectorAggregate, status model.HoleStatus, delta int) {
	bucket := func(n *int) {
		*n += delta
		if *n < 0 {
			g.log.Error("sector count underflow clamped", "quadrant", agg.Quadrant.String(), "status", status.String())
			*n = 0
		}
	}
	switch status {
	case model.StatusQualified:
		bucket(&agg.Qualified)
	case model.StatusDefective:
		bucket(&agg.Defective)
	case model.StatusBlind:
		bucket(&agg.Blind)
	case model.StatusTieRod:
		bucket(&agg.TieRod)
	case model.StatusError:
		bucket(&agg.Errors)
	case model.StatusPending, model.StatusDetecting:
		// Non-terminal statuses have no bucket; only Total covers them.
	}
	agg.Completed = agg.Qualified + agg.Defective + agg.Blind + agg.TieRod
	if agg.Completed > agg.Total {
		g.log.Error("sector completed exceeds total, clamped", "quadrant", agg.Quadrant.String())
		agg.Completed = agg.Total
	}
}

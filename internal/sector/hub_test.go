package sector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holemap/holemap/internal/model"
)

// recordingListener captures notifications in arrival order.
type recordingListener struct {
	name    string
	sectors []model.SectorAggregate
	quads   []model.Quadrant
	overall []model.OverallAggregate
}

func (r *recordingListener) OnSectorProgress(q model.Quadrant, agg model.SectorAggregate) {
	r.quads = append(r.quads, q)
	r.sectors = append(r.sectors, agg)
}

func (r *recordingListener) OnOverallProgress(overall model.OverallAggregate) {
	r.overall = append(r.overall, overall)
}

func TestHub_SubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	a := &recordingListener{name: "a"}
	b := &recordingListener{name: "b"}

	hub.Subscribe(a)
	hub.Subscribe(a) // double-subscribe is ignored
	hub.Subscribe(b)

	hub.PublishOverallUpdate(model.OverallAggregate{Total: 1})
	assert.Len(t, a.overall, 1)
	assert.Len(t, b.overall, 1)

	hub.Unsubscribe(a)
	hub.PublishOverallUpdate(model.OverallAggregate{Total: 2})
	assert.Len(t, a.overall, 1, "unsubscribed listener must receive nothing")
	assert.Len(t, b.overall, 2)
}

func TestHub_NilListenerIgnored(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.Subscribe(nil)
		hub.PublishOverallUpdate(model.OverallAggregate{})
	})
}

// N accepted updates produce exactly N sector and N overall notifications
// per listener, in call order.
func TestNotificationFidelity(t *testing.T) {
	hub := NewHub()
	listener := &recordingListener{name: "view"}
	hub.Subscribe(listener)

	g := NewAggregator(hub, quietLogger())
	g.Load(cornerHoles())

	// Load publishes one snapshot per quadrant plus one overall.
	require.Len(t, listener.quads, model.QuadrantCount)
	require.Len(t, listener.overall, 1)
	listener.quads = nil
	listener.sectors = nil
	listener.overall = nil

	updates := []struct {
		id     string
		status model.HoleStatus
	}{
		{"NE", model.StatusDetecting},
		{"NE", model.StatusQualified},
		{"SW", model.StatusDefective},
		{"NW", model.StatusBlind},
		{"SE", model.StatusTieRod},
	}
	for _, u := range updates {
		g.UpdateHoleStatus(u.id, u.status)
	}

	require.Len(t, listener.quads, len(updates))
	require.Len(t, listener.overall, len(updates))

	wantQuads := []model.Quadrant{
		model.QuadrantI, model.QuadrantI, model.QuadrantIII,
		model.QuadrantII, model.QuadrantIV,
	}
	assert.Equal(t, wantQuads, listener.quads, "notifications must arrive in call order")

	// Overall completion is monotone over this sequence: 0,1,2,3,4.
	for i, o := range listener.overall {
		assert.Equal(t, i, o.Completed, "overall notification %d", i)
	}
}

// A rejected update (unknown id) publishes nothing.
func TestNotificationFidelity_IgnoredUpdateNotPublished(t *testing.T) {
	hub := NewHub()
	listener := &recordingListener{}
	hub.Subscribe(listener)

	g := NewAggregator(hub, quietLogger())
	g.Load(cornerHoles())
	listener.quads = nil
	listener.overall = nil

	g.UpdateHoleStatus("NONEXISTENT", model.StatusQualified)
	assert.Empty(t, listener.quads)
	assert.Empty(t, listener.overall)
}

// pullingListener reads back through the aggregator from inside the
// callback; what it pulls must agree with what was pushed.
type pullingListener struct {
	g        *Aggregator
	mismatch bool
}

func (p *pullingListener) OnSectorProgress(q model.Quadrant, agg model.SectorAggregate) {
	if p.g.SectorProgress(q) != agg {
		p.mismatch = true
	}
}

func (p *pullingListener) OnOverallProgress(overall model.OverallAggregate) {
	if p.g.OverallProgress() != overall {
		p.mismatch = true
	}
}

func TestNotificationConsistentWithPull(t *testing.T) {
	hub := NewHub()
	g := NewAggregator(hub, quietLogger())
	listener := &pullingListener{g: g}
	hub.Subscribe(listener)

	g.Load(cornerHoles())
	g.UpdateHoleStatus("NE", model.StatusQualified)
	g.UpdateHoleStatus("NE", model.StatusDefective)
	g.UpdateHoleStatus("SW", model.StatusError)

	assert.False(t, listener.mismatch,
		"a pull from inside a notification must match the pushed aggregate")
}

func TestHub_RegistrationOrderPreserved(t *testing.T) {
	hub := NewHub()
	var order []string
	a := &orderListener{name: "first", order: &order}
	b := &orderListener{name: "second", order: &order}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.PublishOverallUpdate(model.OverallAggregate{})
	assert.Equal(t, []string{"first", "second"}, order)
}

type orderListener struct {
	name  string
	order *[]string
}

func (o *orderListener) OnSectorProgress(model.Quadrant, model.SectorAggregate) {}
func (o *orderListener) OnOverallProgress(model.OverallAggregate) {
	*o.order = append(*o.order, o.name)
}

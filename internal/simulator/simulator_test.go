package simulator

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/holemap/holemap/internal/model"
)

// collector records applied updates thread-safely.
type collector struct {
	mu      sync.Mutex
	updates []struct {
		id     string
		status model.HoleStatus
	}
}

func (c *collector) apply(id string, status model.HoleStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, struct {
		id     string
		status model.HoleStatus
	}{id, status})
}

func (c *collector) snapshot() []struct {
	id     string
	status model.HoleStatus
} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]struct {
		id     string
		status model.HoleStatus
	}, len(c.updates))
	copy(out, c.updates)
	return out
}

func fastSettings() model.SimSettings {
	s := model.DefaultSimSettings()
	s.TickMillis = 1
	s.Seed = 42
	return s
}

func waitUntilDone(t *testing.T, sim *Simulator) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for sim.Running() {
		select {
		case <-deadline:
			t.Fatal("simulation did not finish in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSimulator_VisitsEveryPendingHoleInOrder(t *testing.T) {
	holes := model.GridPattern(2, 3, 20, 4)
	c := &collector{}
	sim := New(fastSettings(), c.apply)

	if !sim.Start(holes) {
		t.Fatal("Start returned false on idle simulator")
	}
	waitUntilDone(t, sim)

	updates := c.snapshot()
	// Each hole gets a Detecting update followed by a terminal one.
	if len(updates) != 2*len(holes) {
		t.Fatalf("expected %d updates, got %d", 2*len(holes), len(updates))
	}
	for i, h := range holes {
		if updates[2*i].id != h.ID || updates[2*i].status != model.StatusDetecting {
			t.Fatalf("update %d: expected %s detecting, got %s %v",
				2*i, h.ID, updates[2*i].id, updates[2*i].status)
		}
		if updates[2*i+1].id != h.ID || !updates[2*i+1].status.IsTerminal() {
			t.Fatalf("update %d: expected %s terminal, got %s %v",
				2*i+1, h.ID, updates[2*i+1].id, updates[2*i+1].status)
		}
	}
}

func TestSimulator_SkipsTerminalHoles(t *testing.T) {
	holes := model.GridPattern(1, 3, 20, 4)
	holes[1].Status = model.StatusQualified

	c := &collector{}
	sim := New(fastSettings(), c.apply)
	sim.Start(holes)
	waitUntilDone(t, sim)

	for _, u := range c.snapshot() {
		if u.id == holes[1].ID {
			t.Errorf("already-terminal hole %s should not be revisited", u.id)
		}
	}
}

func TestSimulator_StartWhileRunningRefused(t *testing.T) {
	holes := model.GridPattern(10, 10, 20, 4)
	settings := fastSettings()
	settings.TickMillis = 50 // slow enough to still be running

	sim := New(settings, func(string, model.HoleStatus) {})
	if !sim.Start(holes) {
		t.Fatal("first Start should succeed")
	}
	defer sim.Stop()

	if sim.Start(holes) {
		t.Error("second Start while running should be refused")
	}
}

func TestSimulator_StopHaltsDeliveries(t *testing.T) {
	holes := model.GridPattern(10, 10, 20, 4)
	c := &collector{}
	sim := New(fastSettings(), c.apply)
	sim.Start(holes)
	time.Sleep(20 * time.Millisecond)
	sim.Stop()

	n := len(c.snapshot())
	time.Sleep(20 * time.Millisecond)
	if len(c.snapshot()) != n {
		t.Error("updates kept arriving after Stop returned")
	}
	if sim.Running() {
		t.Error("simulator still reports running after Stop")
	}

	// Stop again is a no-op.
	sim.Stop()
}

func TestSimulator_DeterministicWithSeed(t *testing.T) {
	holes := model.GridPattern(3, 3, 20, 4)

	runOnce := func() []model.HoleStatus {
		c := &collector{}
		sim := New(fastSettings(), c.apply)
		sim.Start(holes)
		waitUntilDone(t, sim)
		var outcomes []model.HoleStatus
		for _, u := range c.snapshot() {
			if u.status != model.StatusDetecting {
				outcomes = append(outcomes, u.status)
			}
		}
		return outcomes
	}

	first := runOnce()
	second := runOnce()
	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("seeded runs diverged at outcome %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestDrawOutcome_AllQualifiedWhenNoFailures(t *testing.T) {
	settings := model.SimSettings{TickMillis: 1, Seed: 7}
	sim := New(settings, func(string, model.HoleStatus) {})

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		if got := sim.drawOutcome(rng); got != model.StatusQualified {
			t.Fatalf("with zero failure rates every outcome must be qualified, got %v", got)
		}
	}
}

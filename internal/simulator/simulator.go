// Package simulator drives a fake detection run over a loaded hole set,
// standing in for the probe hardware during development and demos.
package simulator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/holemap/holemap/internal/model"
)

// ApplyFunc receives each simulated status change. The simulator calls it
// from its own goroutine; callers feeding a UI must marshal onto the UI
// thread inside the func.
type ApplyFunc func(holeID string, status model.HoleStatus)

// Simulator walks the hole list in order, marking each hole Detecting for
// one tick and then resolving it to a terminal status drawn from the
// configured probabilities.
type Simulator struct {
	settings model.SimSettings
	apply    ApplyFunc

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// New creates a simulator delivering updates through apply.
func New(settings model.SimSettings, apply ApplyFunc) *Simulator {
	return &Simulator{
		settings: settings,
		apply:    apply,
	}
}

// Running reports whether a simulation run is in progress.
func (s *Simulator) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Start begins a run over the given holes in slice order. Holes that are
// already terminal are skipped. Returns false if a run is already active.
func (s *Simulator) Start(holes []model.Hole) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return false
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	seed := s.settings.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pending := make([]string, 0, len(holes))
	for _, h := range holes {
		if !h.Status.IsTerminal() {
			pending = append(pending, h.ID)
		}
	}

	go s.run(pending, rng, s.stop, s.done)
	return true
}

// Stop ends the current run and waits for the worker to exit. Safe to
// call when no run is active, and safe to call more than once.
func (s *Simulator) Stop() {
	s.mu.Lock()
	if !s.running || s.stop == nil {
		s.mu.Unlock()
		return
	}
	close(s.stop)
	s.stop = nil
	done := s.done
	s.mu.Unlock()

	<-done
}

func (s *Simulator) run(pending []string, rng *rand.Rand, stop <-chan struct{}, done chan<- struct{}) {
	defer func() {
		s.mu.Lock()
		s.running = false
		close(done)
		s.mu.Unlock()
	}()

	interval := time.Duration(s.settings.TickMillis) * time.Millisecond
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, id := range pending {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		s.apply(id, model.StatusDetecting)

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		s.apply(id, s.drawOutcome(rng))
	}
}

// drawOutcome picks a terminal status according to the configured failure
// percentages; the remainder of the distribution is Qualified.
func (s *Simulator) drawOutcome(rng *rand.Rand) model.HoleStatus {
	roll := rng.Float64() * 100
	cfg := s.settings
	switch {
	case roll < cfg.DefectivePct:
		return model.StatusDefective
	case roll < cfg.DefectivePct+cfg.BlindPct:
		return model.StatusBlind
	case roll < cfg.DefectivePct+cfg.BlindPct+cfg.TieRodPct:
		return model.StatusTieRod
	case roll < cfg.DefectivePct+cfg.BlindPct+cfg.TieRodPct+cfg.ErrorPct:
		return model.StatusError
	default:
		return model.StatusQualified
	}
}

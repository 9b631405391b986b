package simulator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
)

const DefaultInterval = 200 * time.Millisecond

var (
	ErrNotIdle      = errors.New("simulation is not idle")
	ErrNotScheduled = errors.New("simulation loop could not be scheduled")
)

// Runner schedules the timer loop. TryGo must not wait for capacity: a full
// runner refuses, and Start reports ErrNotScheduled.
type Runner interface {
	TryGo(ctx context.Context, f func(ctx context.Context) error) bool
}

type Config struct {
	Interval    time.Duration
	Progression Progression
	Catalog     Catalog
	Runner      Runner
	NewTicker   TickerFactory
	Now         func() time.Time
	// OnComplete runs on the loop goroutine after the state reached COMPLETE.
	OnComplete func(state entity.ProcessingState)
}

// Simulator is the IDLE → RUNNING → COMPLETE machine behind one dashboard.
type Simulator struct {
	interval    time.Duration
	progression Progression
	catalog     Catalog
	runner      Runner
	newTicker   TickerFactory
	now         func() time.Time
	onComplete  func(state entity.ProcessingState)

	mu     sync.Mutex
	state  entity.ProcessingState
	gen    uint64
	cancel context.CancelFunc
}

func New(cfg Config) (*Simulator, error) {
	if cfg.Runner == nil {
		return nil, errors.New("simulator runner is required")
	}
	if cfg.Progression == nil {
		return nil, errors.New("simulator progression is required")
	}

	catalog := cfg.Catalog
	if catalog.Len() == 0 {
		catalog = DefaultCatalog()
	}

	// an increment of a full step width or more could jump a label
	if limit := catalog.Width(); cfg.Progression.Max() <= 0 || cfg.Progression.Max() >= limit {
		return nil, fmt.Errorf("progression increment must be in (0, %.2f), got %.2f", limit, cfg.Progression.Max())
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	newTicker := cfg.NewTicker
	if newTicker == nil {
		newTicker = NewTicker
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Simulator{
		interval:    interval,
		progression: cfg.Progression,
		catalog:     catalog,
		runner:      cfg.Runner,
		newTicker:   newTicker,
		now:         now,
		onComplete:  cfg.OnComplete,
		state:       idleState(),
	}, nil
}

// Start moves an IDLE simulator to RUNNING and schedules its timer loop.
// ctx bounds the lifetime of the loop, not just the call.
func (s *Simulator) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state.State != entity.SimulationStateIdle {
		s.mu.Unlock()
		return ErrNotIdle
	}

	s.gen++
	gen := s.gen
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = entity.ProcessingState{
		State:     entity.SimulationStateRunning,
		Progress:  0,
		StepIndex: 0,
		StepLabel: s.catalog.Label(0),
		IsRunning: true,
		StartedAt: s.now(),
	}
	s.mu.Unlock()

	if !s.runner.TryGo(runCtx, func(ctx context.Context) error {
		return s.run(ctx, gen)
	}) {
		s.mu.Lock()
		if s.gen == gen {
			s.gen++
			s.cancel = nil
			s.state = idleState()
		}
		s.mu.Unlock()
		cancel()
		return ErrNotScheduled
	}

	return nil
}

// Stop tears down a live timer and discards the run, leaving the machine IDLE.
// It reports whether a RUNNING simulation was interrupted.
func (s *Simulator) Stop() bool {
	s.mu.Lock()
	wasRunning := s.state.State == entity.SimulationStateRunning
	s.gen++
	cancel := s.cancel
	s.cancel = nil
	s.state = idleState()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	return wasRunning
}

func (s *Simulator) Snapshot() entity.ProcessingState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

func (s *Simulator) snapshotLocked() entity.ProcessingState {
	out := s.state
	if s.state.Stats != nil {
		stats := *s.state.Stats
		out.Stats = &stats
	}
	return out
}

func (s *Simulator) run(ctx context.Context, gen uint64) error {
	t := s.newTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C():
			if s.tick(gen) {
				return nil
			}
		}
	}
}

// tick advances the run owned by gen and reports whether the loop should exit.
func (s *Simulator) tick(gen uint64) bool {
	s.mu.Lock()
	if s.gen != gen || s.state.State != entity.SimulationStateRunning {
		s.mu.Unlock()
		return true
	}

	inc := s.progression.Increment()
	if inc < 0 {
		inc = 0
	}
	next := s.state.Progress + inc

	if next < 100 {
		s.state.Progress = next
		if idx := s.catalog.IndexFor(next); idx > s.state.StepIndex {
			s.state.StepIndex = idx
			s.state.StepLabel = s.catalog.Label(idx)
		}
		s.mu.Unlock()
		return false
	}

	stats := entity.FixedResultStats()
	last := s.catalog.Len() - 1
	s.state.State = entity.SimulationStateComplete
	s.state.Progress = 100
	s.state.StepIndex = last
	s.state.StepLabel = s.catalog.Label(last)
	s.state.IsRunning = false
	s.state.Stats = &stats
	s.state.CompletedAt = s.now()

	cancel := s.cancel
	s.cancel = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.onComplete != nil {
		s.onComplete(snapshot)
	}

	return true
}

func idleState() entity.ProcessingState {
	return entity.ProcessingState{State: entity.SimulationStateIdle}
}

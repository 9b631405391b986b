package simulator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// heldRunner accepts work without running it so tests can drive ticks by hand.
type heldRunner struct {
	calls atomic.Int32
}

func (r *heldRunner) TryGo(context.Context, func(ctx context.Context) error) bool {
	r.calls.Add(1)
	return true
}

type refusingRunner struct{}

func (refusingRunner) TryGo(context.Context, func(ctx context.Context) error) bool {
	return false
}

type goRunner struct {
	wg sync.WaitGroup
}

func (r *goRunner) TryGo(ctx context.Context, f func(ctx context.Context) error) bool {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = f(ctx)
	}()
	return true
}

type manualTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time {
	return m.ch
}

func (m *manualTicker) Stop() {
	m.stopped.Store(true)
}

// manualTickers hands out tickers and remembers them for assertions.
type manualTickers struct {
	mu      sync.Mutex
	tickers []*manualTicker
	created chan *manualTicker
}

func newManualTickers() *manualTickers {
	return &manualTickers{created: make(chan *manualTicker, 8)}
}

func (f *manualTickers) factory(time.Duration) Ticker {
	t := &manualTicker{ch: make(chan time.Time)}
	f.mu.Lock()
	f.tickers = append(f.tickers, t)
	f.mu.Unlock()
	f.created <- t
	return t
}

type constantProgression float64

func (c constantProgression) Increment() float64 { return float64(c) }

func (c constantProgression) Max() float64 { return float64(c) }

// currentGen exposes the generation a test needs to call tick directly.
func (s *Simulator) currentGen() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

package pkgroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// Manager runs functions on a bounded number of goroutines and keeps the
// errors they return for Wait.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}
}

func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go runs f once a slot is free, blocking while the manager is full.
// It returns false without running f if pCtx ends first.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) bool {
	if err := pCtx.Err(); err != nil {
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", err)
		return false
	}

	select {
	case g.sema <- struct{}{}:
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		return false
	}

	g.spawn(pCtx, f)
	return true
}

// TryGo is Go without the wait: it returns false at once when no slot is free.
func (g *Manager) TryGo(pCtx context.Context, f func(ctx context.Context) error) bool {
	if pCtx.Err() != nil {
		return false
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(pCtx, "goroutine pool is full", "limit", cap(g.sema))
		return false
	}

	g.spawn(pCtx, f)
	return true
}

// spawn runs f on a slot the caller already acquired.
func (g *Manager) spawn(pCtx context.Context, f func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() { <-g.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "because", rvr, "stack", string(debug.Stack()))
			}
		}()

		if pCtx.Err() != nil {
			slog.WarnContext(pCtx, "goroutine canceled", "because", pCtx.Err())
			return
		}

		if err := f(pCtx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()
}

// Running reports how many scheduled functions currently hold a slot.
func (g *Manager) Running() int {
	return len(g.sema)
}

// Limit is the number of functions that may hold a slot at once.
func (g *Manager) Limit() int {
	return cap(g.sema)
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

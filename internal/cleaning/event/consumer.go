package event

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
)

type Handler interface {
	Handle(ctx context.Context, event entity.LifecycleEvent) error
}

type ConsumerConfig struct {
	Workers     int
	MaxRetries  int
	BaseBackoff time.Duration
}

type LifecycleConsumer struct {
	bus         *Bus
	handler     Handler
	workers     int
	maxRetries  int
	baseBackoff time.Duration
	seen        sync.Map
	wg          sync.WaitGroup
}

// NewLifecycleConsumer fans events from bus out to handler on cfg.Workers goroutines.
func NewLifecycleConsumer(bus *Bus, handler Handler, cfg ConsumerConfig) *LifecycleConsumer {
	workers := cfg.Workers
	if workers < 1 {
		workers = 4
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = 100 * time.Millisecond
	}

	return &LifecycleConsumer{
		bus:         bus,
		handler:     handler,
		workers:     workers,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

func (c *LifecycleConsumer) Start() {
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker()
	}
}

func (c *LifecycleConsumer) Stop(ctx context.Context) error {
	if c.bus != nil {
		c.bus.Close()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *LifecycleConsumer) worker() {
	defer c.wg.Done()

	for event := range c.bus.Subscribe() {
		c.processEvent(event)
	}
}

func (c *LifecycleConsumer) processEvent(event entity.LifecycleEvent) {
	if c.handler == nil {
		return
	}

	if event.EventID != 0 {
		if _, loaded := c.seen.LoadOrStore(event.EventID, struct{}{}); loaded {
			slog.Info("skip duplicate lifecycle event", "event_id", event.EventID, "session_id", event.SessionID)
			return
		}
	}

	backoff := c.baseBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		err := c.handler.Handle(context.Background(), event)
		if err == nil {
			return
		}

		if attempt == c.maxRetries {
			slog.Error("failed to handle lifecycle event after retries", "event_id", event.EventID, "session_id", event.SessionID, "kind", event.Kind, "error", err)
			return
		}

		if !sleepBackoff(backoff) {
			return
		}
		backoff *= 2
	}
}

func sleepBackoff(d time.Duration) bool {
	if d <= 0 {
		return false
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	<-timer.C
	return true
}

// AuditLogger records every lifecycle transition as a structured log line.
type AuditLogger struct {
	Logger *slog.Logger
}

func (a AuditLogger) Handle(ctx context.Context, event entity.LifecycleEvent) error {
	if event.SessionID == "" {
		return errors.New("missing session id")
	}

	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "session lifecycle",
		"event_id", event.EventID,
		"session_id", event.SessionID,
		"kind", event.Kind,
		"file_name", event.File.Name,
		"file_size", event.File.Size,
		"file_extension", event.File.Extension,
		"progress", event.Progress,
		"at", event.At,
	)
	return nil
}

package event

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AAnishRam/medical-data-processing/internal/cleaning/entity"
)

type handlerFunc func(ctx context.Context, event entity.LifecycleEvent) error

func (h handlerFunc) Handle(ctx context.Context, event entity.LifecycleEvent) error {
	return h(ctx, event)
}

func TestLifecycleConsumerRetriesAndIdempotent(t *testing.T) {
	bus := NewBus(10)

	var attempts int32
	done := make(chan struct{})
	handler := handlerFunc(func(ctx context.Context, event entity.LifecycleEvent) error {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return errors.New("temporary failure")
		}
		select {
		case <-done:
		default:
			close(done)
		}
		return nil
	})

	consumer := NewLifecycleConsumer(bus, handler, ConsumerConfig{
		Workers:     1,
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
	})
	consumer.Start()

	event := entity.LifecycleEvent{EventID: 1, SessionID: "session-1", Kind: entity.EventKindProcessingStarted}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish event: %v", err)
	}
	if err := bus.Publish(context.Background(), event); err != nil {
		t.Fatalf("publish duplicate: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for handler")
	}

	if err := consumer.Stop(context.Background()); err != nil {
		t.Fatalf("stop consumer: %v", err)
	}

	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestBusRejectsPublishAfterClose(t *testing.T) {
	bus := NewBus(1)
	bus.Close()
	bus.Close()

	err := bus.Publish(context.Background(), entity.LifecycleEvent{EventID: 1, SessionID: "s"})
	if !errors.Is(err, ErrBusClosed) {
		t.Fatalf("expected ErrBusClosed, got %v", err)
	}
}

func TestBusPublishHonorsContext(t *testing.T) {
	bus := NewBus(1)
	if err := bus.Publish(context.Background(), entity.LifecycleEvent{EventID: 1, SessionID: "s"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := bus.Publish(ctx, entity.LifecycleEvent{EventID: 2, SessionID: "s"}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded on a full bus, got %v", err)
	}
}

func TestAuditLoggerWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	audit := AuditLogger{Logger: logger}
	err := audit.Handle(context.Background(), entity.LifecycleEvent{
		EventID:   42,
		SessionID: "session-9",
		Kind:      entity.EventKindFileSelected,
		File:      entity.NewFile("patients.xlsx", 2048, "application/octet-stream"),
	})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"session_id":"session-9"`, `"kind":"FILE_SELECTED"`, `"file_extension":".xlsx"`, `"event_id":42`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}

	if err := audit.Handle(context.Background(), entity.LifecycleEvent{EventID: 1}); err == nil {
		t.Fatal("expected error for event without session id")
	}
}

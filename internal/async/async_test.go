package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

type blockingSink struct {
	release chan struct{}
	mem     *logpipe.MemorySink
	closed  atomic.Bool
}

func (b *blockingSink) Emit(ctx context.Context, ev model.LogEvent) error {
	<-b.release
	return b.mem.Emit(ctx, ev)
}
func (b *blockingSink) Close() error {
	b.closed.Store(true)
	return nil
}

type errSink struct{}

func (errSink) Emit(context.Context, model.LogEvent) error {
	return errors.New("send failed")
}

func (errSink) Close() error {
	return nil
}

func TestEmitDoesNotWaitForDelivery(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{}), mem: logpipe.NewMemorySink()}
	a := New(inner)

	done := make(chan struct{})
	go func() {
		_ = a.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityFatal, "test", "down", nil))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a slow sink")
	}

	close(inner.release)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if n := len(inner.mem.Events()); n != 1 {
		t.Errorf("expected 1 delivered event after Close, got %d", n)
	}
}

func TestErrorsGoToCallback(t *testing.T) {
	var mu sync.Mutex
	var got []error
	a := New(errSink{}, WithOnError(func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	}))

	_ = a.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityFatal, "test", "down", nil))
	a.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("expected 1 reported error, got %d", len(got))
	}
}

func TestDropsWhenFull(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{}), mem: logpipe.NewMemorySink()}
	a := New(inner, WithBufferSize(1), WithDrainTimeout(100*time.Millisecond))

	for i := 0; i < 5; i++ {
		_ = a.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityFatal, "test", "down", nil))
	}
	if a.Dropped() == 0 {
		t.Error("expected dropped events with a full buffer")
	}

	close(inner.release)
	a.Close()
}

func TestCloseLeavesInnerOpenWhileDelivering(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{}), mem: logpipe.NewMemorySink()}
	a := New(inner, WithDrainTimeout(50*time.Millisecond))

	_ = a.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityFatal, "test", "down", nil))

	if err := a.Close(); !errors.Is(err, ErrDrainTimeout) {
		t.Fatalf("expected ErrDrainTimeout, got %v", err)
	}
	if inner.closed.Load() {
		t.Error("inner sink closed while an event was still being delivered")
	}

	close(inner.release)
}

func TestCloseClosesInnerAfterDrain(t *testing.T) {
	inner := &blockingSink{release: make(chan struct{}), mem: logpipe.NewMemorySink()}
	a := New(inner)
	_ = a.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityFatal, "test", "down", nil))
	close(inner.release)

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if !inner.closed.Load() {
		t.Error("expected inner sink to be closed")
	}
	if len(inner.mem.Events()) != 1 {
		t.Errorf("expected 1 delivered event, got %d", len(inner.mem.Events()))
	}
}

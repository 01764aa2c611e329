// Package async decouples event producers from slow sinks.
package async

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

const (
	defaultBufferSize   = 256
	defaultDrainTimeout = 10 * time.Second
)

// Option configures an Async wrapper.
type Option func(*Async)

// WithBufferSize sets the channel capacity. Default: 256.
func WithBufferSize(n int) Option {
	return func(a *Async) { a.bufSize = n }
}

// WithOnError sets the callback invoked when the inner sink fails.
func WithOnError(f func(error)) Option {
	return func(a *Async) { a.errFunc = f }
}

// WithDrainTimeout bounds how long Close waits for queued events.
func WithDrainTimeout(d time.Duration) Option {
	return func(a *Async) { a.drainTimeout = d }
}

// Async queues events on a buffered channel and delivers them to the inner
// sink from a background goroutine. Emit never blocks: when the buffer is
// full the event is dropped and counted.
type Async struct {
	inner        logpipe.Sink
	ch           chan model.LogEvent
	done         chan struct{}
	errFunc      func(error)
	bufSize      int
	drainTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	dropped int64
}

// New wraps inner and starts the drain goroutine.
func New(inner logpipe.Sink, opts ...Option) *Async {
	a := &Async{
		inner:        inner,
		bufSize:      defaultBufferSize,
		drainTimeout: defaultDrainTimeout,
		errFunc:      func(err error) { log.Printf("async sink: delivery failed: %v", err) },
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ch = make(chan model.LogEvent, a.bufSize)
	a.done = make(chan struct{})
	go a.drain()
	return a
}

// Emit enqueues the event.
func (a *Async) Emit(_ context.Context, ev model.LogEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	select {
	case a.ch <- ev:
	default:
		a.dropped++
		log.Printf("async sink: buffer full, dropping %s event (total dropped: %d)", ev.Severity, a.dropped)
	}
	return nil
}

// Dropped returns the number of events lost to a full buffer.
func (a *Async) Dropped() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dropped
}

// ErrDrainTimeout is returned by Close when queued events were still being
// delivered after the drain timeout. The inner sink is left open then.
var ErrDrainTimeout = errors.New("async sink: drain timed out")

// Close stops accepting events, waits (bounded) for queued ones to be
// delivered and closes the inner sink.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.ch)
	a.mu.Unlock()

	select {
	case <-a.done:
	case <-time.After(a.drainTimeout):
		return ErrDrainTimeout
	}
	return a.inner.Close()
}

func (a *Async) drain() {
	defer close(a.done)
	for ev := range a.ch {
		if err := a.inner.Emit(context.Background(), ev); err != nil {
			a.errFunc(err)
		}
	}
}

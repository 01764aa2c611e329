package logpipe

import (
	"context"
	"sync"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// MemorySink keeps every event it receives. Tests use it to assert on the
// events a component emitted.
type MemorySink struct {
	mu     sync.Mutex
	events []model.LogEvent
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Emit(_ context.Context, event model.LogEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Events returns a snapshot of the captured events in arrival order.
func (m *MemorySink) Events() []model.LogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.LogEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Count returns how many captured events have the given severity.
func (m *MemorySink) Count(sev model.Severity) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.events {
		if e.Severity == sev {
			n++
		}
	}
	return n
}

// Reset discards captured events.
func (m *MemorySink) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}

// NewCapture builds a pipeline with a Debug global minimum and a single
// MemorySink, for tests that assert on emitted events.
func NewCapture() (*Pipeline, *MemorySink) {
	mem := NewMemorySink()
	p := New(NewLevelResolver(model.SeverityDebug),
		WithSink("memory", KindMemory, mem, model.SeverityDebug))
	return p, mem
}

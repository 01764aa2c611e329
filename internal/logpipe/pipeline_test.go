package logpipe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/clock"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

type failingSink struct {
	err    error
	closed bool
}

func (f *failingSink) Emit(context.Context, model.LogEvent) error {
	return f.err
}

func (f *failingSink) Close() error {
	f.closed = true
	return nil
}

type panickingSink struct{}

func (panickingSink) Emit(context.Context, model.LogEvent) error {
	panic("boom")
}

func (panickingSink) Close() error {
	return nil
}

func TestSinkMinimumIsMonotonic(t *testing.T) {
	for _, sinkMin := range model.Severities() {
		for _, sev := range model.Severities() {
			mem := NewMemorySink()
			p := New(NewLevelResolver(model.SeverityDebug),
				WithSink("memory", KindMemory, mem, sinkMin))

			p.Dispatch(context.Background(), model.NewLogEvent(time.Now(), sev, "test", "msg", nil))

			got := len(mem.Events())
			want := 0
			if sev >= sinkMin {
				want = 1
			}
			if got != want {
				t.Errorf("sink min %s, event %s: expected %d deliveries, got %d", sinkMin, sev, want, got)
			}
		}
	}
}

func TestGlobalMinimumApplies(t *testing.T) {
	mem := NewMemorySink()
	p := New(NewLevelResolver(model.SeverityInformation),
		WithSink("memory", KindMemory, mem, model.SeverityDebug))

	log := p.Logger("controller.Session")
	log.Debug("dropped")
	log.Info("kept")

	if n := len(mem.Events()); n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
}

func TestFailingSinkDoesNotBlockOthers(t *testing.T) {
	bad := &failingSink{err: errors.New("smtp down")}
	mem := NewMemorySink()

	var reported []string
	p := New(NewLevelResolver(model.SeverityDebug),
		WithSink("bad", KindEmail, bad, model.SeverityDebug),
		WithSink("panics", KindConsole, panickingSink{}, model.SeverityDebug),
		WithSink("memory", KindMemory, mem, model.SeverityDebug),
		WithOnError(func(sink string, err error) {
			reported = append(reported, sink+": "+err.Error())
		}),
	)

	p.Logger("test").Error("something broke")

	if len(mem.Events()) != 1 {
		t.Errorf("expected memory sink to receive the event, got %d", len(mem.Events()))
	}
	if len(reported) != 2 {
		t.Fatalf("expected 2 reported failures, got %v", reported)
	}
	if !strings.Contains(reported[0], "smtp down") {
		t.Errorf("expected first failure from bad sink, got %q", reported[0])
	}
	if !strings.Contains(reported[1], "panic") {
		t.Errorf("expected panic to be reported, got %q", reported[1])
	}
}

func TestEnabled(t *testing.T) {
	p := New(NewLevelResolver(model.SeverityDebug, Override{Prefix: "gin", Minimum: model.SeverityWarning}),
		WithSink("memory", KindMemory, NewMemorySink(), model.SeverityInformation))

	if p.Enabled("app", model.SeverityDebug) {
		t.Error("Debug should not reach an Information sink")
	}
	if !p.Enabled("app", model.SeverityInformation) {
		t.Error("Information should be enabled for app")
	}
	if p.Enabled("gin", model.SeverityInformation) {
		t.Error("gin Information should be filtered by override")
	}
}

func TestCloseClosesSinksOnce(t *testing.T) {
	s := &failingSink{}
	p := New(NewLevelResolver(model.SeverityDebug), WithSink("s", KindFile, s, model.SeverityDebug))

	if err := p.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if !s.closed {
		t.Error("expected sink to be closed")
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close returned error: %v", err)
	}
}

func TestLoggerAttributesAndException(t *testing.T) {
	fixed := time.Date(2026, 2, 17, 9, 30, 0, 0, time.UTC)
	mem := NewMemorySink()
	p := New(NewLevelResolver(model.SeverityDebug),
		WithSink("memory", KindMemory, mem, model.SeverityDebug),
		WithClock(clock.NewFake(fixed)))

	log := p.Logger("controller.Ideas").With("request_id", "abc")
	log.Error("create failed", "session_id", 7, "error", errors.New("validation"))

	events := mem.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.Source != "controller.Ideas" {
		t.Errorf("expected source controller.Ideas, got %q", ev.Source)
	}
	if ev.Properties["request_id"] != "abc" || ev.Properties["session_id"] != 7 {
		t.Errorf("unexpected properties: %v", ev.Properties)
	}
	if _, ok := ev.Properties["error"]; ok {
		t.Error("error should be moved to the exception, not kept as a property")
	}
	if ev.Exception != "validation" {
		t.Errorf("expected exception 'validation', got %q", ev.Exception)
	}
	if !ev.Timestamp.Equal(fixed) {
		t.Errorf("expected timestamp %v, got %v", fixed, ev.Timestamp)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Info("nothing happens")
	if log.With("k", "v") != nil {
		t.Error("expected nil child logger")
	}
}

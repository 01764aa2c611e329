package eventlog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

type call struct {
	level string
	msg   string
}

type fakeWriter struct {
	calls  []call
	err    error
	closed int
}

func (f *fakeWriter) rec(level, msg string) error {
	f.calls = append(f.calls, call{level, msg})
	return f.err
}

func (f *fakeWriter) Debug(msg string) error {
	return f.rec("debug", msg)
}

func (f *fakeWriter) Info(msg string) error {
	return f.rec("info", msg)
}

func (f *fakeWriter) Warning(msg string) error {
	return f.rec("warning", msg)
}

func (f *fakeWriter) Error(msg string) error {
	return f.rec("error", msg)
}

func (f *fakeWriter) Critical(msg string) error {
	return f.rec("critical", msg)
}

func (f *fakeWriter) Close() error {
	f.closed++
	return nil
}

func TestSeverityMapping(t *testing.T) {
	fw := &fakeWriter{}
	s := newWithWriter("BrainstormSessions", fw)
	ts := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

	want := []string{"debug", "info", "warning", "error", "critical"}
	for _, sev := range model.Severities() {
		if err := s.Emit(context.Background(), model.NewLogEvent(ts, sev, "controller.home", "hello", nil)); err != nil {
			t.Fatalf("Emit(%s): %v", sev, err)
		}
	}
	if len(fw.calls) != len(want) {
		t.Fatalf("got %d calls, want %d", len(fw.calls), len(want))
	}
	for i, w := range want {
		if fw.calls[i].level != w {
			t.Errorf("call %d level = %q, want %q", i, fw.calls[i].level, w)
		}
	}
}

func TestMessageFormat(t *testing.T) {
	fw := &fakeWriter{}
	s := newWithWriter("app", fw)
	ev := model.NewLogEvent(time.Now(), model.SeverityError, "controller.session", "session not found", map[string]any{"id": 7})
	ev.Exception = "not found"
	if err := s.Emit(context.Background(), ev); err != nil {
		t.Fatal(err)
	}
	got := fw.calls[0].msg
	want := "[ERR] controller.session: session not found id=7 error: not found"
	if got != want {
		t.Fatalf("msg = %q, want %q", got, want)
	}
	if strings.Contains(got, "\n") {
		t.Fatal("message must be a single line")
	}
}

func TestEmitErrorPropagates(t *testing.T) {
	fw := &fakeWriter{err: errors.New("socket closed")}
	s := newWithWriter("app", fw)
	if err := s.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityWarning, "x", "m", nil)); err == nil {
		t.Fatal("expected error from writer")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	fw := &fakeWriter{}
	s := newWithWriter("app", fw)
	_ = s.Close()
	_ = s.Close()
	if fw.closed != 1 {
		t.Fatalf("writer closed %d times, want 1", fw.closed)
	}
	if err := s.Emit(context.Background(), model.NewLogEvent(time.Now(), model.SeverityError, "x", "m", nil)); err != nil {
		t.Fatalf("Emit after Close: %v", err)
	}
	if len(fw.calls) != 0 {
		t.Fatal("Emit after Close must not write")
	}
}

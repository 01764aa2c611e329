// Package eventlog forwards events to the operating system log: syslog on
// Unix and the Windows Event Log on Windows.
package eventlog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
)

// ErrUnavailable is returned by New when the platform has no system log.
var ErrUnavailable = errors.New("eventlog: system log unavailable")

// writer is the per-severity surface shared by syslog and the Windows
// event log.
type writer interface {
	Debug(msg string) error
	Info(msg string) error
	Warning(msg string) error
	Error(msg string) error
	Critical(msg string) error
	Close() error
}

// Sink writes events to the OS log under a fixed application name.
type Sink struct {
	mu      sync.Mutex
	w       writer
	appName string
	closed  bool
}

// New opens the system log for appName.
func New(appName string) (*Sink, error) {
	w, err := open(appName)
	if err != nil {
		return nil, err
	}
	return &Sink{w: w, appName: appName}, nil
}

func newWithWriter(appName string, w writer) *Sink {
	return &Sink{w: w, appName: appName}
}

// AppName returns the tag or event source the sink writes under.
func (s *Sink) AppName() string { return s.appName }

func (s *Sink) Emit(_ context.Context, ev model.LogEvent) error {
	msg := formatMessage(ev)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	switch ev.Severity {
	case model.SeverityDebug:
		return s.w.Debug(msg)
	case model.SeverityInformation:
		return s.w.Info(msg)
	case model.SeverityWarning:
		return s.w.Warning(msg)
	case model.SeverityError:
		return s.w.Error(msg)
	default:
		return s.w.Critical(msg)
	}
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.w.Close()
}

// formatMessage drops the timestamp, which the system log records itself.
func formatMessage(ev model.LogEvent) string {
	return strings.TrimPrefix(output.FormatLine(ev, ""), " ")
}

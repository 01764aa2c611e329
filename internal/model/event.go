package model

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// LogEvent is a single emitted log record. Sinks must treat it as read-only.
type LogEvent struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Severity   Severity       `json:"level"`
	Source     string         `json:"source"`
	Message    string         `json:"message"`
	Properties map[string]any `json:"properties,omitempty"`
	Exception  string         `json:"exception,omitempty"`
}

// NewLogEvent stamps a new event with a fresh ID. The properties map is
// copied so later changes by the caller do not leak into the event.
func NewLogEvent(ts time.Time, sev Severity, source, msg string, props map[string]any) LogEvent {
	var own map[string]any
	if len(props) > 0 {
		own = maps.Clone(props)
	}
	return LogEvent{
		ID:         uuid.NewString(),
		Timestamp:  ts,
		Severity:   sev,
		Source:     source,
		Message:    msg,
		Properties: own,
	}
}

// RawLine is a single unparsed line read from a log file.
type RawLine struct {
	Text   string
	Source string // originating file path
}

//go:build windows

package eventlog

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows/svc/eventlog"
)

// Event IDs written with each severity.
const (
	eventIDInfo    uint32 = 1000
	eventIDWarning uint32 = 2000
	eventIDError   uint32 = 3000
	eventIDFatal   uint32 = 4000
)

type winWriter struct {
	l *eventlog.Log
}

func open(appName string) (writer, error) {
	// Registering the source needs administrator rights the first time; an
	// existing registration is fine.
	err := eventlog.InstallAsEventCreate(appName, eventlog.Error|eventlog.Warning|eventlog.Info)
	if err != nil && !strings.Contains(err.Error(), "exists") {
		return nil, fmt.Errorf("%w: register source %s: %v", ErrUnavailable, appName, err)
	}
	l, err := eventlog.Open(appName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return winWriter{l: l}, nil
}

// The Windows Event Log has no debug level.
func (w winWriter) Debug(msg string) error {
	return w.l.Info(eventIDInfo, msg)
}

func (w winWriter) Info(msg string) error {
	return w.l.Info(eventIDInfo, msg)
}

func (w winWriter) Warning(msg string) error {
	return w.l.Warning(eventIDWarning, msg)
}

func (w winWriter) Error(msg string) error {
	return w.l.Error(eventIDError, msg)
}

func (w winWriter) Critical(msg string) error {
	return w.l.Error(eventIDFatal, msg)
}

func (w winWriter) Close() error {
	return w.l.Close()
}

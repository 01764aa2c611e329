//go:build !windows && !plan9

package eventlog

import (
	"fmt"
	"log/syslog"
)

type syslogWriter struct {
	w *syslog.Writer
}

func open(appName string) (writer, error) {
	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, appName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return syslogWriter{w: w}, nil
}

func (s syslogWriter) Debug(msg string) error {
	return s.w.Debug(msg)
}

func (s syslogWriter) Info(msg string) error {
	return s.w.Info(msg)
}

func (s syslogWriter) Warning(msg string) error {
	return s.w.Warning(msg)
}

func (s syslogWriter) Error(msg string) error {
	return s.w.Err(msg)
}

func (s syslogWriter) Critical(msg string) error {
	return s.w.Crit(msg)
}

func (s syslogWriter) Close() error {
	return s.w.Close()
}

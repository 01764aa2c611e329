package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/watcher"
)

func writeLogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"logs-20260301.log": "01 10:00 [INF] listed sessions count=2\n01 10:01 [DBG] resolved session id=1\n",
		"logs-20260302.log": "02 09:00 [WRN] invalid session form error: session name must not be blank\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestShowLogsJSONInOrder(t *testing.T) {
	dir := writeLogs(t)
	var out bytes.Buffer

	err := showLogs(context.Background(), &out, logsOptions{dir: dir, pattern: watcher.DefaultPattern, min: model.SeverityDebug, json: true})
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 events, got %d:\n%s", len(lines), out.String())
	}
	var events []model.LogEvent
	for _, l := range lines {
		var ev model.LogEvent
		if err := json.Unmarshal([]byte(l), &ev); err != nil {
			t.Fatal(err)
		}
		events = append(events, ev)
	}
	if events[0].Message != "listed sessions" || events[2].Severity != model.SeverityWarning {
		t.Errorf("unexpected events %+v", events)
	}
	if !events[2].Timestamp.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp %v", events[2].Timestamp)
	}
}

func TestShowLogsLevelFilter(t *testing.T) {
	dir := writeLogs(t)
	var out bytes.Buffer

	err := showLogs(context.Background(), &out, logsOptions{dir: dir, pattern: watcher.DefaultPattern, min: model.SeverityWarning})
	if err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "invalid session form") {
		t.Errorf("expected the warning, got:\n%s", text)
	}
	if strings.Contains(text, "listed sessions") || strings.Contains(text, "resolved session") {
		t.Errorf("events below Warning were shown:\n%s", text)
	}
}

func TestShowLogsNoFiles(t *testing.T) {
	var out bytes.Buffer
	err := showLogs(context.Background(), &out, logsOptions{dir: t.TempDir(), pattern: watcher.DefaultPattern})
	if err == nil {
		t.Fatal("expected an error when no files match")
	}
}

func TestRootSubcommands(t *testing.T) {
	want := map[string]bool{"serve": false, "logs": false, "config": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

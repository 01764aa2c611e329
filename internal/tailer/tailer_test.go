package tailer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/watcher"
)

func expectLine(t *testing.T, lines <-chan model.RawLine, text, source string) {
	t.Helper()
	select {
	case raw := <-lines:
		if raw.Text != text {
			t.Errorf("expected %q, got %q", text, raw.Text)
		}
		if source != "" && raw.Source != source {
			t.Errorf("expected source %q, got %q", source, raw.Source)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %q", text)
	}
}

func appendTo(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(text); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestTailNewLines(t *testing.T) {
	// Create a log file with some pre-existing content.
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logs-20260217.log"), []byte("17 09:00 [INF] existing line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New(dir, watcher.DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(w.Dir(), "logs-20260217.log")

	tail := New(w)

	ctx, cancel := context.WithCancel(context.Background())

	go w.Start(ctx)
	go tail.Start(ctx)

	// Give the tailer a moment to initialize and seek to end.
	time.Sleep(300 * time.Millisecond)

	// Append a new line. Only this one should be picked up.
	appendTo(t, logPath, "17 09:01 [WRN] hello from test\n")
	expectLine(t, tail.Lines(), "17 09:01 [WRN] hello from test", logPath)

	// Cancel and allow goroutines to stop before TempDir cleanup.
	cancel()
	time.Sleep(200 * time.Millisecond)
}

func TestTailFromStartAndNewDay(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logs-20260217.log"), []byte("17 23:59 [INF] last of the day\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := watcher.New(dir, watcher.DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}
	tail := New(w, WithFromStart(true))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	go tail.Start(ctx)

	expectLine(t, tail.Lines(), "17 23:59 [INF] last of the day", "")

	// The next day's file appears and is read from its first line.
	next := filepath.Join(w.Dir(), "logs-20260218.log")
	appendTo(t, next, "18 00:00 [INF] first of the day\n")
	expectLine(t, tail.Lines(), "18 00:00 [INF] first of the day", next)

	cancel()
	time.Sleep(200 * time.Millisecond)
}

func TestTailPartialLine(t *testing.T) {
	dir := t.TempDir()
	w, err := watcher.New(dir, watcher.DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}
	tail := New(w)
	path := filepath.Join(w.Dir(), "logs-20260301.log")

	// Drive the tailer directly without the fsnotify loop.
	ctx := context.Background()
	appendTo(t, path, "01 10:00 [ERR] half")
	tail.openFile(path, true)
	tail.readNewLines(ctx, path)
	select {
	case raw := <-tail.Lines():
		t.Fatalf("partial line emitted early: %q", raw.Text)
	default:
	}

	appendTo(t, path, " a line\r\n")
	tail.readNewLines(ctx, path)
	expectLine(t, tail.Lines(), "01 10:00 [ERR] half a line", path)
	tail.closeAll()
}

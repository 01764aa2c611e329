package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hcnaf/Logging-MentoringProgram/internal/hub"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
	"github.com/hcnaf/Logging-MentoringProgram/internal/output"
	"github.com/hcnaf/Logging-MentoringProgram/internal/parser"
	"github.com/hcnaf/Logging-MentoringProgram/internal/tailer"
	"github.com/hcnaf/Logging-MentoringProgram/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show or follow the daily log files",
	Long: `Print the events recorded in the rolling log files, optionally
filtered by minimum level, and keep following new events.

Examples:
  brainstorm logs
  brainstorm logs --level warning
  brainstorm logs --follow --json
  brainstorm logs --dir /var/log/brainstorm --pattern "logs-202601*.log"`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().String("dir", "", "log directory (default: logging.dir)")
	logsCmd.Flags().String("pattern", watcher.DefaultPattern, "file glob inside the log directory")
	logsCmd.Flags().StringP("level", "l", "debug", "minimum level to show: debug, info, warning, error, fatal")
	logsCmd.Flags().BoolP("follow", "f", false, "keep watching for new events")
	logsCmd.Flags().Bool("json", false, "print events as JSON lines")
	rootCmd.AddCommand(logsCmd)
}

// logsOptions are the parsed flags of the logs command.
type logsOptions struct {
	dir     string
	pattern string
	min     model.Severity
	follow  bool
	json    bool
}

func runLogs(cmd *cobra.Command, args []string) error {
	opts := logsOptions{}
	opts.dir, _ = cmd.Flags().GetString("dir")
	if opts.dir == "" {
		opts.dir = viper.GetString("logging.dir")
	}
	opts.pattern, _ = cmd.Flags().GetString("pattern")
	opts.follow, _ = cmd.Flags().GetBool("follow")
	opts.json, _ = cmd.Flags().GetBool("json")

	level, _ := cmd.Flags().GetString("level")
	minSev, err := model.ParseSeverity(level)
	if err != nil {
		return err
	}
	opts.min = minSev

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return showLogs(ctx, cmd.OutOrStdout(), opts)
}

// showLogs prints existing events, then streams new ones when following.
func showLogs(ctx context.Context, out io.Writer, opts logsOptions) error {
	var renderer output.Renderer = output.NewTextRendererTo(out)
	if opts.json {
		renderer = output.NewJSONRendererTo(out)
	}
	p := parser.NewAutoParser()

	files, err := watcher.Expand(opts.dir, opts.pattern)
	if err != nil {
		return fmt.Errorf("list log files: %w", err)
	}
	if !opts.follow {
		if len(files) == 0 {
			return fmt.Errorf("no log files matching %q in %s", opts.pattern, opts.dir)
		}
		for _, path := range files {
			if err := renderFile(path, p, opts.min, renderer); err != nil {
				return err
			}
		}
		return nil
	}

	// --- Follow: watcher -> tailer -> hub -> renderer ---
	w, err := watcher.New(opts.dir, opts.pattern)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	t := tailer.New(w, tailer.WithFromStart(true))
	h := hub.New()
	events, unsubscribe := h.Subscribe()
	defer unsubscribe()

	go w.Start(ctx)
	go t.Start(ctx)
	go h.Start(ctx, t.Lines(), p)

	for ev := range events {
		if ev.Severity < opts.min {
			continue
		}
		if err := renderer.Render(ev); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return nil
}

func renderFile(path string, p parser.Parser, minSev model.Severity, r output.Renderer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ev := p.Parse(line, path)
		if ev.Severity < minSev {
			continue
		}
		if err := r.Render(ev); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	return scanner.Err()
}

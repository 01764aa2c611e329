package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// Renderer writes log events to an output stream. Every renderer is also a
// pipeline sink.
type Renderer interface {
	Render(ev model.LogEvent) error
	Emit(ctx context.Context, ev model.LogEvent) error
	Close() error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized console output)
// ---------------------------------------------------------------------------

var (
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	// white on red
	styleFatal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("196")).
			Bold(true)
	styleSource = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)
)

// TextRenderer prints events with severity-based colors.
type TextRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

// NewTextRendererTo writes to w instead of stdout.
func NewTextRendererTo(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(ev model.LogEvent) error {
	tag := styleLevelTag(ev.Severity)
	ts := ev.Timestamp.Format("15:04:05")

	line := fmt.Sprintf("[%s %s] %s %s", ts, tag, styleSource.Render(ev.Source), ev.Message)
	if props := FormatProperties(ev.Properties); props != "" {
		line += " " + props
	}
	if ev.Exception != "" {
		line += " " + styleError.Render("error:") + " " + flatten(ev.Exception)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func (r *TextRenderer) Emit(_ context.Context, ev model.LogEvent) error {
	return r.Render(ev)
}

func (r *TextRenderer) Close() error {
	return nil
}

func styleLevelTag(sev model.Severity) string {
	code := sev.Code()
	switch sev {
	case model.SeverityDebug:
		return styleDebug.Render(code)
	case model.SeverityWarning:
		return styleWarn.Render(code)
	case model.SeverityError:
		return styleError.Render(code)
	case model.SeverityFatal:
		return styleFatal.Render(code)
	default:
		return styleInfo.Render(code)
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each event as a single JSON object per line.
type JSONRenderer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

// NewJSONRendererTo writes to w instead of stdout.
func NewJSONRendererTo(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(ev model.LogEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enc.Encode(ev)
}

func (r *JSONRenderer) Emit(_ context.Context, ev model.LogEvent) error {
	return r.Render(ev)
}

func (r *JSONRenderer) Close() error {
	return nil
}

package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// FileTimeLayout truncates timestamps to day, hour and minute.
const FileTimeLayout = "02 15:04"

// FormatLine renders an event as a single line without a trailing newline:
//
//	<timestamp> [<CODE>] <source>: <message> key=value ... error: <exception>
//
// Properties are sorted by key and newlines are flattened so one event
// always occupies exactly one line.
func FormatLine(ev model.LogEvent, layout string) string {
	var sb strings.Builder
	sb.WriteString(ev.Timestamp.Format(layout))
	sb.WriteString(" [")
	sb.WriteString(ev.Severity.Code())
	sb.WriteString("] ")
	if ev.Source != "" {
		sb.WriteString(ev.Source)
		sb.WriteString(": ")
	}
	sb.WriteString(flatten(ev.Message))
	if props := FormatProperties(ev.Properties); props != "" {
		sb.WriteByte(' ')
		sb.WriteString(props)
	}
	if ev.Exception != "" {
		sb.WriteString(" error: ")
		sb.WriteString(flatten(ev.Exception))
	}
	return sb.String()
}

// FormatProperties renders properties as space-separated key=value pairs.
func FormatProperties(props map[string]any) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := flatten(fmt.Sprintf("%v", props[k]))
		if strings.ContainsAny(v, " =") {
			v = fmt.Sprintf("%q", v)
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\r", "")), " ")
}

package parser

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hcnaf/Logging-MentoringProgram/internal/model"
)

// Parser converts a raw log line into a LogEvent. Lines that do not match
// the parser's format come back as Information events carrying the raw text.
type Parser interface {
	Parse(raw string, source string) model.LogEvent
}

// ---------------------------------------------------------------------------
// Line Parser (rolling file format)
// ---------------------------------------------------------------------------

// LineParser reads lines written by the rolling file sink:
//
//	DD HH:MM [CODE] source: message key=value ... error: exception
//
// The line only carries the day of month, so year and month come from the
// file name (logs-YYYYMMDD.log). All timestamps are UTC.
type LineParser struct {
	re    *regexp.Regexp
	dated *regexp.Regexp
	now   func() time.Time
}

func NewLineParser() *LineParser {
	return &LineParser{
		re:    regexp.MustCompile(`^(\d{2}) (\d{2}):(\d{2}) \[([A-Z]{3})\] ?(?:([A-Za-z0-9_./\-]+): )?(.*)$`),
		dated: regexp.MustCompile(`(\d{4})(\d{2})(\d{2})\.log$`),
		now:   time.Now,
	}
}

func (p *LineParser) Parse(raw string, source string) model.LogEvent {
	m := p.re.FindStringSubmatch(strings.TrimRight(raw, "\r\n"))
	if m == nil {
		return keywordParse(raw, source)
	}
	sev, err := model.ParseSeverity(m[4])
	if err != nil {
		return keywordParse(raw, source)
	}

	year, month := p.fileMonth(source)
	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])
	ts := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)

	rest := m[6]
	switch m[5] {
	case "":
	case "error":
		rest = "error: " + rest
	default:
		source = m[5]
	}
	var exception string
	if i := strings.LastIndex(rest, " error: "); i >= 0 {
		exception = rest[i+len(" error: "):]
		rest = rest[:i]
	} else if strings.HasPrefix(rest, "error: ") {
		exception = rest[len("error: "):]
		rest = ""
	}
	msg, props := splitProperties(rest)

	ev := model.NewLogEvent(ts, sev, source, msg, props)
	ev.Exception = exception
	return ev
}

// fileMonth extracts year and month from the file name, falling back to the
// current UTC month.
func (p *LineParser) fileMonth(source string) (int, time.Month) {
	if m := p.dated.FindStringSubmatch(filepath.Base(source)); m != nil {
		y, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		if mo >= 1 && mo <= 12 {
			return y, time.Month(mo)
		}
	}
	now := p.now().UTC()
	return now.Year(), now.Month()
}

var kvKey = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.\-]*=`)

type token struct {
	start int
	key   string
	val   string
	kv    bool
}

// splitProperties separates the trailing key=value pairs from the message.
// Quoted values are unquoted.
func splitProperties(s string) (string, map[string]any) {
	var toks []token
	for i := 0; i < len(s); {
		if s[i] == ' ' {
			i++
			continue
		}
		start := i
		if loc := kvKey.FindStringIndex(s[i:]); loc != nil {
			key := s[i : i+loc[1]-1]
			j := i + loc[1]
			if j < len(s) && s[j] == '"' {
				if end := closingQuote(s, j); end > 0 {
					if v, err := strconv.Unquote(s[j : end+1]); err == nil {
						toks = append(toks, token{start: start, key: key, val: v, kv: true})
						i = end + 1
						continue
					}
				}
			}
			end := wordEnd(s, j)
			toks = append(toks, token{start: start, key: key, val: s[j:end], kv: true})
			i = end
			continue
		}
		toks = append(toks, token{start: start})
		i = wordEnd(s, i)
	}

	k := len(toks)
	for k > 0 && toks[k-1].kv {
		k--
	}
	if k == 0 && len(toks) > 0 {
		k = 1 // the first word is always message text
	}
	if k == len(toks) {
		return strings.TrimSpace(s), nil
	}

	props := make(map[string]any, len(toks)-k)
	for _, t := range toks[k:] {
		props[t.key] = t.val
	}
	return strings.TrimSpace(s[:toks[k].start]), props
}

func closingQuote(s string, open int) int {
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func wordEnd(s string, from int) int {
	if n := strings.IndexByte(s[from:], ' '); n >= 0 {
		return from + n
	}
	return len(s)
}

// ---------------------------------------------------------------------------
// JSON Parser
// ---------------------------------------------------------------------------

// JSONParser handles the output of the JSON console renderer, one event per
// line.
type JSONParser struct{}

func NewJSONParser() *JSONParser { return &JSONParser{} }

func (p *JSONParser) Parse(raw string, source string) model.LogEvent {
	var ev model.LogEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil || ev.Message == "" {
		return keywordParse(raw, source)
	}
	if ev.Source == "" {
		ev.Source = source
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	return ev
}

// ---------------------------------------------------------------------------
// Auto Parser (format auto-detection)
// ---------------------------------------------------------------------------

// AutoParser tries parsers in order: JSON → rolling line → keyword fallback.
type AutoParser struct {
	jsonParser *JSONParser
	lineParser *LineParser
}

func NewAutoParser() *AutoParser {
	return &AutoParser{
		jsonParser: NewJSONParser(),
		lineParser: NewLineParser(),
	}
}

func (p *AutoParser) Parse(raw string, source string) model.LogEvent {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return p.jsonParser.Parse(trimmed, source)
	}
	return p.lineParser.Parse(raw, source)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// keywordParse detects severity from keywords in the line.
func keywordParse(line, source string) model.LogEvent {
	sev := model.SeverityInformation
	upper := strings.ToUpper(line)

	switch {
	case strings.Contains(upper, "FATAL"), strings.Contains(upper, "[FTL]"):
		sev = model.SeverityFatal
	case strings.Contains(upper, "ERROR"), strings.Contains(upper, "[ERR]"):
		sev = model.SeverityError
	case strings.Contains(upper, "WARN"), strings.Contains(upper, "[WRN]"):
		sev = model.SeverityWarning
	case strings.Contains(upper, "DEBUG"), strings.Contains(upper, "[DBG]"):
		sev = model.SeverityDebug
	}

	return model.NewLogEvent(time.Now(), sev, source, strings.TrimRight(line, "\r\n"), nil)
}

package model

import (
	"fmt"
	"strings"
)

// Severity is the ordered importance of a log event.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInformation
	SeverityWarning
	SeverityError
	SeverityFatal
)

// Severities lists every severity in ascending order.
func Severities() []Severity {
	return []Severity{SeverityDebug, SeverityInformation, SeverityWarning, SeverityError, SeverityFatal}
}

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "Debug"
	case SeverityInformation:
		return "Information"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "Fatal"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Code returns the three-letter upper-case level code used in text output.
func (s Severity) Code() string {
	switch s {
	case SeverityDebug:
		return "DBG"
	case SeverityInformation:
		return "INF"
	case SeverityWarning:
		return "WRN"
	case SeverityError:
		return "ERR"
	case SeverityFatal:
		return "FTL"
	default:
		return "???"
	}
}

// ParseSeverity accepts level names and codes, case-insensitively.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return SeverityDebug, nil
	case "info", "information", "inf":
		return SeverityInformation, nil
	case "warn", "warning", "wrn":
		return SeverityWarning, nil
	case "error", "err":
		return SeverityError, nil
	case "fatal", "ftl":
		return SeverityFatal, nil
	default:
		return SeverityDebug, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText renders the severity by name so JSON output stays readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

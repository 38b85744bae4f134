package types

import (
	"fmt"
	"strings"
)

// Issue is a problem found in a proof file.
type Issue struct {
	Rule     string
	Category string
	Filename string
	// Line is the 1-based proof line the issue is about, or 0 when it
	// concerns the whole file.
	Line     int
	Message  string
	Snippet  string
	Note     string
	Severity Severity
}

// Severity ranks an issue. SeverityOff disables whatever it is attached to.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

var severityNames = [...]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityInfo:    "info",
	SeverityOff:     "off",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return strings.ToUpper(severityNames[s])
}

// ParseSeverity accepts the names used in configuration files, in any case.
func ParseSeverity(name string) (Severity, error) {
	for s, n := range severityNames {
		if strings.EqualFold(name, n) {
			return Severity(s), nil
		}
	}
	return SeverityError, fmt.Errorf("unknown severity %q", name)
}

func (s Severity) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(severityNames) {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ConfigRule is the per-rule entry of a configuration file.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}

package diag

import (
	"fmt"
	"strings"
)

// Severity ranks a diagnostic. Larger values are more serious.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// IsError reports whether s makes a table or a resolution unusable.
func (s Severity) IsError() bool {
	return s >= SevError
}

// ParseSeverity accepts the names printed by String in any case, plus
// the short form "warn".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INFO":
		return SevInfo, nil
	case "WARN", "WARNING":
		return SevWarning, nil
	case "ERROR":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q", s)
}

// Package classify tags log lines with a display severity.
package classify

import "strings"

// Severity is the coloring category of a log line.
type Severity int

const (
	SeverityDefault Severity = iota
	SeverityError
	SeverityWarn
	SeverityDebug
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warn"
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	default:
		return "default"
	}
}

// headLen bounds the scan; megabyte-long lines carry their level up front.
const headLen = 40

var (
	errorWords = []string{"ERROR", "FATAL", "CRIT", "EMERG", "ALERT"}
	debugWords = []string{"DEBUG", "TRACE", "VERBOSE"}
	infoWords  = []string{"INFO", "NOTICE"}
)

// Classify returns the severity of a line based on keywords in its head.
func Classify(line string) Severity {
	head := line
	if len(head) > headLen {
		head = head[:headLen]
	}
	head = strings.ToUpper(head)

	for _, w := range errorWords {
		if strings.Contains(head, w) {
			return SeverityError
		}
	}
	if strings.Contains(head, "WARN") {
		return SeverityWarn
	}
	for _, w := range debugWords {
		if strings.Contains(head, w) {
			return SeverityDebug
		}
	}
	for _, w := range infoWords {
		if strings.Contains(head, w) {
			return SeverityInfo
		}
	}
	return SeverityDefault
}

package classify

import (
	"strings"
	"testing"
)

func TestClassifyError(t *testing.T) {
	for _, line := range []string{
		"2024-01-01 ERROR something broke",
		"fatal: out of memory",
		"kernel: CRIT disk failure",
		"EMERG power loss",
		"ALERT intrusion detected",
	} {
		if got := Classify(line); got != SeverityError {
			t.Errorf("Classify(%q) = %v, want error", line, got)
		}
	}
}

func TestClassifyWarn(t *testing.T) {
	if got := Classify("WARN disk almost full"); got != SeverityWarn {
		t.Errorf("got %v, want warn", got)
	}
	if got := Classify("2024-01-01 warning: deprecated flag"); got != SeverityWarn {
		t.Errorf("got %v, want warn", got)
	}
}

func TestClassifyDebug(t *testing.T) {
	for _, line := range []string{"DEBUG cache miss", "trace: enter loop", "VERBOSE detail"} {
		if got := Classify(line); got != SeverityDebug {
			t.Errorf("Classify(%q) = %v, want debug", line, got)
		}
	}
}

func TestClassifyInfo(t *testing.T) {
	if got := Classify("INFO server started"); got != SeverityInfo {
		t.Errorf("got %v, want info", got)
	}
	if got := Classify("NOTICE config reloaded"); got != SeverityInfo {
		t.Errorf("got %v, want info", got)
	}
}

func TestClassifyDefault(t *testing.T) {
	if got := Classify("plain line with nothing special"); got != SeverityDefault {
		t.Errorf("got %v, want default", got)
	}
	if got := Classify(""); got != SeverityDefault {
		t.Errorf("got %v for empty line, want default", got)
	}
}

func TestClassifyOnlyScansHead(t *testing.T) {
	// Keyword past the first 40 chars must not match.
	line := strings.Repeat("x", 50) + " ERROR too late"
	if got := Classify(line); got != SeverityDefault {
		t.Errorf("got %v, want default for keyword beyond head", got)
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityError.String() != "error" || SeverityDefault.String() != "default" {
		t.Error("unexpected Severity string values")
	}
}

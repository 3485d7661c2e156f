package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name. "warn" and the numeric levels
// 0, 1 and 2 are accepted as aliases.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return SeverityOff, nil
	case "warning", "warn", "1":
		return SeverityWarning, nil
	case "error", "2":
		return SeverityError, nil
	default:
		return SeverityOff, fmt.Errorf("unknown severity: %q", s)
	}
}

// MarshalJSON serializes the severity as a JSON string.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseSeverity(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TextEdit replaces the bytes covered by Range with NewText.
type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

// Fix is a set of edits that must be applied together.
type Fix struct {
	Edits []TextEdit `json:"edits"`
}

// Range returns the smallest range covering every edit of the fix.
func (f *Fix) Range() Range {
	if f == nil || len(f.Edits) == 0 {
		return Range{}
	}
	r := f.Edits[0].Range
	for _, e := range f.Edits[1:] {
		if e.Range.Start < r.Start {
			r.Start = e.Range.Start
		}
		if e.Range.End > r.End {
			r.End = e.Range.End
		}
	}
	return r
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	// Rule is the name of the rule that found this problem.
	Rule string `json:"rule"`

	// Message is a human-readable description of the problem.
	Message string `json:"message"`

	// Severity is the severity level of the diagnostic.
	Severity Severity `json:"severity"`

	// Location is the source span of the problem.
	Location Location `json:"location"`

	// Range is the byte range matching Location.
	Range Range `json:"range"`

	// Fix is an optional automatic rewrite.
	Fix *Fix `json:"fix,omitempty"`
}

// Fixable reports whether the diagnostic carries a fix.
func (d Diagnostic) Fixable() bool {
	return d.Fix != nil && len(d.Fix.Edits) > 0
}

// String returns the diagnostic in go vet style: file:line:col: message (rule).
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Location, d.Message, d.Rule)
}

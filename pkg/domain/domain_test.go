package domain

import (
	"encoding/json"
	"testing"
)

func TestReport_CountDiagnostics(t *testing.T) {
	fix := &Fix{Edits: []TextEdit{{Range: Range{Start: 0, End: 1}}}}
	report := Report{
		Files: []FileReport{
			{
				Diagnostics: []Diagnostic{
					{Rule: "a", Severity: SeverityError, Fix: fix},
					{Rule: "b", Severity: SeverityWarning},
				},
			},
			{
				Diagnostics: []Diagnostic{{Rule: "c", Severity: SeverityError}},
			},
		},
	}

	if got := report.CountDiagnostics(); got != 3 {
		t.Errorf("CountDiagnostics() = %d, want 3", got)
	}
	if got := report.CountBySeverity(SeverityError); got != 2 {
		t.Errorf("CountBySeverity(error) = %d, want 2", got)
	}
	if got := report.CountFixable(); got != 1 {
		t.Errorf("CountFixable() = %d, want 1", got)
	}
	if got := len(report.Diagnostics()); got != 3 {
		t.Errorf("len(Diagnostics()) = %d, want 3", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		want     Language
	}{
		{name: "should detect JavaScript for .js", filename: "test.js", want: LanguageJavaScript},
		{name: "should detect JavaScript for .mjs", filename: "test.mjs", want: LanguageJavaScript},
		{name: "should detect TypeScript for .ts", filename: "test.ts", want: LanguageTypeScript},
		{name: "should detect TypeScript for .cts", filename: "test.cts", want: LanguageTypeScript},
		{name: "should detect TSX for .tsx", filename: "src/Button.test.tsx", want: LanguageTSX},
		{name: "should default to JavaScript for unknown extension", filename: "test.txt", want: LanguageJavaScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := DetectLanguage(tt.filename); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(SeverityWarning)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"warning"` {
		t.Errorf("Marshal() = %s, want \"warning\"", data)
	}

	var s Severity
	if err := json.Unmarshal([]byte(`"warn"`), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s != SeverityWarning {
		t.Errorf("Unmarshal() = %v, want warning", s)
	}

	if err := json.Unmarshal([]byte(`"fatal"`), &s); err == nil {
		t.Error("expected error for unknown severity")
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		a, b     Range
		overlaps bool
	}{
		{name: "should not overlap adjacent ranges", a: Range{0, 3}, b: Range{3, 5}, overlaps: false},
		{name: "should overlap intersecting ranges", a: Range{0, 4}, b: Range{3, 5}, overlaps: true},
		{name: "should overlap contained ranges", a: Range{0, 10}, b: Range{3, 5}, overlaps: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.a.Overlaps(tt.b); got != tt.overlaps {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.overlaps)
			}
		})
	}

	if !(Range{Start: 2, End: 2}).Valid(2) {
		t.Error("empty range at end of source should be valid")
	}
	if (Range{Start: 3, End: 2}).Valid(5) {
		t.Error("inverted range should be invalid")
	}
}

func TestFix_Range(t *testing.T) {
	fix := &Fix{Edits: []TextEdit{
		{Range: Range{Start: 10, End: 12}},
		{Range: Range{Start: 2, End: 4}},
	}}
	if got := fix.Range(); got != (Range{Start: 2, End: 12}) {
		t.Errorf("Range() = %v, want {2 12}", got)
	}
}

func TestLocation_String(t *testing.T) {
	loc := NewLocation("a.js", Position{Line: 2, Col: 7}, Position{Line: 2, Col: 9})
	if got := loc.String(); got != "a.js:2:7" {
		t.Errorf("String() = %q, want %q", got, "a.js:2:7")
	}
}

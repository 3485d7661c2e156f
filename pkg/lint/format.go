package lint

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/specvital/avalint/pkg/domain"
)

// Printer writes reports as text, optionally colored.
type Printer struct {
	errorColor   *color.Color
	warningColor *color.Color
	pathColor    *color.Color
	ruleColor    *color.Color
	summaryColor *color.Color
}

// NewPrinter returns a printer. When colored is false, no escape sequences are written.
func NewPrinter(colored bool) *Printer {
	p := &Printer{
		errorColor:   color.New(color.FgRed, color.Bold),
		warningColor: color.New(color.FgYellow),
		pathColor:    color.New(color.Bold),
		ruleColor:    color.New(color.Faint),
		summaryColor: color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.errorColor, p.warningColor, p.pathColor, p.ruleColor, p.summaryColor} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) severity(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return p.errorColor.Sprint(s.String())
	case domain.SeverityWarning:
		return p.warningColor.Sprint(s.String())
	default:
		return s.String()
	}
}

// FormatText writes one line per diagnostic followed by a summary when problems were found.
func (p *Printer) FormatText(w io.Writer, report domain.Report) {
	for _, d := range report.Diagnostics() {
		fmt.Fprintf(w, "%s: %s %s %s\n", //nolint:errcheck // best-effort output to writer
			p.pathColor.Sprint(d.Location.String()), p.severity(d.Severity), d.Message, p.ruleColor.Sprintf("(%s)", d.Rule))
	}

	total := report.CountDiagnostics()
	if total == 0 {
		return
	}
	summary := fmt.Sprintf("%d %s (%d %s, %d %s)",
		total, plural(total, "problem"),
		report.CountBySeverity(domain.SeverityError), plural(report.CountBySeverity(domain.SeverityError), "error"),
		report.CountBySeverity(domain.SeverityWarning), plural(report.CountBySeverity(domain.SeverityWarning), "warning"))
	if fixable := report.CountFixable(); fixable > 0 {
		summary += fmt.Sprintf(", %d fixable with --fix", fixable)
	}
	fmt.Fprintln(w, p.summaryColor.Sprint(summary)) //nolint:errcheck // best-effort output to writer
}

// FormatText writes diagnostics without color, one per line.
func FormatText(w io.Writer, diags []domain.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output to writer
	}
}

// FormatJSON writes the report as indented JSON.
func FormatJSON(w io.Writer, report domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

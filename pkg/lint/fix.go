package lint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/specvital/avalint/pkg/domain"
)

// MaxFixPasses bounds how many times a file is re-linted while fixes keep applying.
const MaxFixPasses = 10

// ErrNoFixes is returned by ApplyFixes when no fix could be applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// SkippedFix records a fix that was not applied and why.
type SkippedFix struct {
	Rule   string
	Range  domain.Range
	Reason string
}

// ApplyResult is the outcome of one ApplyFixes call.
type ApplyResult struct {
	Output  []byte
	Applied int
	Skipped []SkippedFix
}

type candidate struct {
	diag  domain.Diagnostic
	span  domain.Range
	order int
}

// ApplyFixes applies the fixes of diags to source. Fixes are taken in position
// order; a fix overlapping one already taken, or with an edit outside the source,
// is skipped whole. Edits are applied back to front so earlier offsets stay valid.
func ApplyFixes(source []byte, diags []domain.Diagnostic) (*ApplyResult, error) {
	result := &ApplyResult{Output: source}

	candidates, skipped := gatherCandidates(source, diags)
	result.Skipped = append(result.Skipped, skipped...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.span.Start != b.span.Start {
			return a.span.Start < b.span.Start
		}
		if a.span.End != b.span.End {
			return a.span.End < b.span.End
		}
		return a.order < b.order
	})

	var edits []domain.TextEdit
	var taken []domain.Range
	for _, cand := range candidates {
		if conflicts(cand.diag.Fix.Edits, taken) {
			result.Skipped = append(result.Skipped, SkippedFix{
				Rule:   cand.diag.Rule,
				Range:  cand.span,
				Reason: "overlaps another fix",
			})
			continue
		}
		for _, e := range cand.diag.Fix.Edits {
			taken = append(taken, e.Range)
			edits = append(edits, e)
		}
		result.Applied++
	}

	result.Output = applyEdits(source, edits)
	return result, nil
}

func gatherCandidates(source []byte, diags []domain.Diagnostic) ([]candidate, []SkippedFix) {
	var cands []candidate
	var skips []SkippedFix

	for i, d := range diags {
		if !d.Fixable() {
			continue
		}
		if reason := validateEdits(d.Fix.Edits, len(source)); reason != "" {
			skips = append(skips, SkippedFix{Rule: d.Rule, Range: d.Fix.Range(), Reason: reason})
			continue
		}
		cands = append(cands, candidate{diag: d, span: d.Fix.Range(), order: i})
	}
	return cands, skips
}

func validateEdits(edits []domain.TextEdit, sourceLen int) string {
	for i, e := range edits {
		if !e.Range.Valid(sourceLen) {
			return fmt.Sprintf("edit %d out of range [%d,%d)", i, e.Range.Start, e.Range.End)
		}
		for _, other := range edits[i+1:] {
			if editsCollide(e.Range, other.Range) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

func conflicts(edits []domain.TextEdit, taken []domain.Range) bool {
	for _, e := range edits {
		for _, r := range taken {
			if editsCollide(e.Range, r) {
				return true
			}
		}
	}
	return false
}

// editsCollide treats an insertion at the start of, or inside, another edit as a conflict.
func editsCollide(a, b domain.Range) bool {
	return (a.Start < b.End && b.Start < a.End) || a.Start == b.Start
}

func applyEdits(source []byte, edits []domain.TextEdit) []byte {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Range.Start > edits[j].Range.Start
	})
	out := bytes.Clone(source)
	for _, e := range edits {
		tail := append([]byte(e.NewText), out[e.Range.End:]...)
		out = append(out[:e.Range.Start], tail...)
	}
	return out
}

// FixResult is the outcome of fixing a file until no more fixes apply.
type FixResult struct {
	// Output is the final source.
	Output []byte
	// Diagnostics are the problems left after the last pass.
	Diagnostics []domain.Diagnostic
	// Applied counts fixes applied over all passes.
	Applied int
	Passes  int
}

// Changed reports whether any fix was applied.
func (r *FixResult) Changed() bool {
	return r.Applied > 0
}

// FixFile lints source, applies fixes and re-lints until nothing changes or
// MaxFixPasses is reached.
func (l *Linter) FixFile(ctx context.Context, path string, source []byte) (*FixResult, *domain.FileReport, error) {
	log := l.logger().WithField("file", path)
	result := &FixResult{Output: source}

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		report, err := l.LintFile(ctx, path, result.Output)
		if err != nil {
			return nil, nil, fmt.Errorf("fix pass %d: %w", result.Passes+1, err)
		}
		result.Diagnostics = report.Diagnostics
		if result.Passes >= MaxFixPasses {
			log.Warn("fix passes exhausted")
			return result, result.finish(report), nil
		}

		applied, err := ApplyFixes(result.Output, report.Diagnostics)
		for _, s := range applied.Skipped {
			log.WithFields(logrus.Fields{"rule": s.Rule, "reason": s.Reason}).Debug("skipped fix")
		}
		if errors.Is(err, ErrNoFixes) || applied.Applied == 0 || bytes.Equal(applied.Output, result.Output) {
			return result, result.finish(report), nil
		}

		result.Passes++
		result.Applied += applied.Applied
		result.Output = applied.Output
		log.WithFields(logrus.Fields{"pass": result.Passes, "applied": applied.Applied}).Debug("applied fixes")
	}
}

func (r *FixResult) finish(report *domain.FileReport) *domain.FileReport {
	report.Fixed = r.Changed()
	if report.Fixed {
		report.Output = r.Output
	}
	return report
}

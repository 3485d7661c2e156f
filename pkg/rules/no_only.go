package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

var NoOnlyTest = &lint.Rule{
	Name:        "no-only-test",
	Doc:         "Ensure no test.only() are present.",
	Severity:    domain.SeverityError,
	Recommended: true,
	Fixable:     true,
	Create:      modifierBan(avaast.ModifierOnly, "`test.only()` should not be used."),
}

var NoSkipTest = &lint.Rule{
	Name:     "no-skip-test",
	Doc:      "Ensure no tests are skipped.",
	Severity: domain.SeverityError,
	Fixable:  true,
	Create:   modifierBan(avaast.ModifierSkip, "No tests should be skipped."),
}

// modifierBan reports the first use of modifier in a test chain, with a fix removing it.
func modifierBan(modifier, message string) func(*lint.Context) lint.Visitor {
	return func(ctx *lint.Context) lint.Visitor {
		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.IsTestNode)(func(node *sitter.Node) {
				seg, ok := ctx.TestDefinition(node).Modifier(modifier)
				if !ok {
					return
				}
				ctx.Report(lint.Report{
					Node:    seg.Node,
					Message: message,
					Fix: func() *domain.Fix {
						return &domain.Fix{Edits: avaast.ModifierRemoval(ctx.Tokens(), seg)}
					},
				})
			}),
		}
	}
}

func init() {
	lint.Register(NoOnlyTest)
	lint.Register(NoSkipTest)
}

package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
)

// NoNestedTests reports test definitions declared inside another test's body, at any depth.
var NoNestedTests = &lint.Rule{
	Name:        "no-nested-tests",
	Doc:         "Ensure no tests are nested.",
	Severity:    domain.SeverityError,
	Recommended: true,
	Create: func(ctx *lint.Context) lint.Visitor {
		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.IsTestNode)(func(node *sitter.Node) {
				if ctx.Session().Depth() > 1 {
					ctx.Reportf(node, "Tests should not be nested")
				}
			}),
		}
	},
}

func init() {
	lint.Register(NoNestedTests)
}

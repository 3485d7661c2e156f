package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

var NoDuplicateModifiers = &lint.Rule{
	Name:        "no-duplicate-modifiers",
	Doc:         "Ensure tests do not have duplicate modifiers.",
	Severity:    domain.SeverityError,
	Recommended: true,
	Create: func(ctx *lint.Context) lint.Visitor {
		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.IsTestNode)(func(node *sitter.Node) {
				if m, ok := avaast.DuplicateModifier(ctx.TestDefinition(node)); ok {
					ctx.Reportf(m.Node, "Duplicate test modifier `.%s`.", m.Name)
				}
			}),
		}
	},
}

func init() {
	lint.Register(NoDuplicateModifiers)
}

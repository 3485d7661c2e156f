package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

const (
	TitleAlways     = "always"
	TitleIfMultiple = "if-multiple"
)

var TestTitle = &lint.Rule{
	Name:        "test-title",
	Doc:         "Ensure tests have a title.\n\nWith \"if-multiple\" the first test of a file may omit it.",
	Severity:    domain.SeverityError,
	Recommended: true,
	ParseOptions: func(raw any) (any, error) {
		return parseEnum(raw, TitleIfMultiple, TitleAlways, TitleIfMultiple)
	},
	Create: func(ctx *lint.Context) lint.Visitor {
		ifMultiple := ctx.Options() != TitleAlways
		testCount := 0

		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.IsTestNode, ctx.HasNoHookModifier)(func(node *sitter.Node) {
				testCount++

				def := ctx.TestDefinition(node)
				required := 2
				if def.HasModifier(avaast.ModifierTodo) {
					required = 1
				}
				if len(def.Args()) < required && (!ifMultiple || testCount > 1) {
					ctx.Reportf(node, "Test should have a title.")
				}
			}),
		}
	},
}

func init() {
	lint.Register(TestTitle)
}

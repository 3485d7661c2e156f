package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

var NoIdenticalTitle = &lint.Rule{
	Name:        "no-identical-title",
	Doc:         "Ensure no tests have the same title.",
	Severity:    domain.SeverityError,
	Recommended: true,
	Create: func(ctx *lint.Context) lint.Visitor {
		seen := make(map[uint64][]*avaast.Tree)

		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.IsTestNode, ctx.HasNoHookModifier)(func(node *sitter.Node) {
				title := ctx.TestDefinition(node).Title()
				if title == nil || !avaast.IsStaticTitle(title) {
					return
				}

				tree := avaast.Normalize(title, ctx.Source())
				key := tree.Fingerprint()
				for _, prev := range seen[key] {
					if avaast.Equal(prev, tree) {
						ctx.Reportf(title, "Test title is used multiple times in the same file.")
						return
					}
				}
				seen[key] = append(seen[key], tree)
			}),
		}
	},
}

func init() {
	lint.Register(NoIdenticalTitle)
}

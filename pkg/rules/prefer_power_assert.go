package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

// PreferPowerAssert allows only assertions without a power-assert alternative.
// Both `t.is(...)` and `t.skip.is(...)` are matched.
var PreferPowerAssert = &lint.Rule{
	Name:     "prefer-power-assert",
	Doc:      "Allow only use of the asserts that have no power-assert alternative.",
	Severity: domain.SeverityError,
	Create: func(ctx *lint.Context) lint.Visitor {
		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.InTestBody)(func(node *sitter.Node) {
				chain := avaast.ExtractChain(node, ctx.Source())
				if chain.RootName() != avaast.ContextObject || chain.HasIntermediateCall() {
					return
				}
				names := chain.Names()
				switch {
				case len(names) == 1 && avaast.PowerAssertDisallowed[names[0]]:
				case len(names) == 2 && names[0] == avaast.ModifierSkip && avaast.PowerAssertDisallowed[names[1]]:
				default:
					return
				}
				ctx.Reportf(node, "Only allow use of the assertions that have no power-assert alternative.")
			}),
		}
	},
}

func init() {
	lint.Register(PreferPowerAssert)
}

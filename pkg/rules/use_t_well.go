package rules

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

// UseTWell checks that the execution context is only used through known
// assertions, `skip` and the `context` data bag.
var UseTWell = &lint.Rule{
	Name:        "use-t-well",
	Doc:         "Prevent the incorrect use of `t`.",
	Severity:    domain.SeverityError,
	Recommended: true,
	Create: func(ctx *lint.Context) lint.Visitor {
		guarded := lint.VisitIf(ctx.InTestFile, ctx.InTestBody)

		return lint.Visitor{
			lint.EnterCall: guarded(func(node *sitter.Node) {
				callee := node.ChildByFieldName("function")
				if callee != nil && callee.Type() == "identifier" && ctx.Text(callee) == avaast.ContextObject {
					ctx.Reportf(node, "`t` is not a function.")
				}
			}),
			lint.EnterMember: guarded(func(node *sitter.Node) {
				parent := node.Parent()
				if parent != nil && parent.Type() == "member_expression" {
					return
				}
				chain := avaast.ExtractChain(node, ctx.Source())
				if chain.RootName() != avaast.ContextObject || chain.HasIntermediateCall() {
					return
				}
				checkContextUse(ctx, node, chain.Names(), isCallee(node))
			}),
		}
	},
}

func checkContextUse(ctx *lint.Context, node *sitter.Node, members []string, called bool) {
	if avaast.IsContextAccess(members) {
		if len(members) == 1 && called {
			ctx.Reportf(node, "Unknown assertion method `context`.")
		}
		return
	}

	stats := avaast.NewMemberStats(members)
	if !called {
		if len(stats.Other) > 0 {
			ctx.Reportf(node, "Unknown member `%s`. Use `context.%s` instead.", stats.Other[0], stats.Other[0])
		}
		return
	}

	switch {
	case len(stats.Other) > 0:
		ctx.Reportf(node, "Unknown assertion method `%s`.", stats.Other[0])
	case len(stats.Skip) > 1:
		ctx.Reportf(node, "Too many chained uses of `skip`.")
	case len(stats.Method) > 1:
		ctx.Reportf(node, "Can't chain assertion methods.")
	case len(stats.Method) == 0:
		ctx.Reportf(node, "Missing assertion method.")
	}
}

// isCallee reports whether node is the function position of its parent call.
func isCallee(node *sitter.Node) bool {
	parent := node.Parent()
	if !parser.IsCall(parent) {
		return false
	}
	return avaast.SameNode(parent.ChildByFieldName("function"), node)
}

func init() {
	lint.Register(UseTWell)
}

package rules

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

const (
	MessageAlways = "always"
	MessageNever  = "never"
)

// AssertionArgumentsOptions configures assertion message enforcement.
// An empty Message leaves messages unchecked.
type AssertionArgumentsOptions struct {
	Message string
}

const outOfOrderMessage = "Expected values should come after actual values."

var AssertionArguments = &lint.Rule{
	Name:         "assertion-arguments",
	Doc:          "Enforce passing correct arguments to assertions.",
	Severity:     domain.SeverityError,
	Recommended:  true,
	Fixable:      true,
	ParseOptions: parseAssertionArgumentsOptions,
	Create: func(ctx *lint.Context) lint.Visitor {
		opts, _ := ctx.Options().(AssertionArgumentsOptions)

		return lint.Visitor{
			lint.EnterCall: lint.VisitIf(ctx.InTestFile, ctx.InTestBody)(func(node *sitter.Node) {
				checkAssertionArguments(ctx, opts, node)
			}),
		}
	},
}

func parseAssertionArgumentsOptions(raw any) (any, error) {
	var opts AssertionArgumentsOptions
	if raw == nil {
		return opts, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", raw)
	}
	for key, value := range m {
		if key != "message" {
			return nil, fmt.Errorf("unknown option %q", key)
		}
		msg, err := parseEnum(value, "", MessageAlways, MessageNever)
		if err != nil {
			return nil, fmt.Errorf("message: %w", err)
		}
		opts.Message = msg
	}
	return opts, nil
}

func checkAssertionArguments(ctx *lint.Context, opts AssertionArgumentsOptions, node *sitter.Node) {
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Type() != "member_expression" {
		return
	}
	name, ok := avaast.AssertionName(avaast.ExtractChain(node, ctx.Source()))
	if !ok {
		return
	}

	args := parser.CallArguments(node)
	count := len(args)

	switch name {
	case avaast.MethodEnd:
		if count > 1 {
			ctx.Reportf(node, "Too many arguments. Expected at most 1.")
		}
		return
	case avaast.MethodTry:
		if count < 1 {
			ctx.Reportf(node, "Not enough arguments. Expected at least 1.")
		}
		return
	}

	bounds, ok := avaast.ArgumentBounds[name]
	if !ok {
		return
	}

	switch {
	case count < bounds.Min:
		ctx.Reportf(node, "Not enough arguments. Expected at least %d.", bounds.Min)
		return
	case count > bounds.Max:
		ctx.Reportf(node, "Too many arguments. Expected at most %d.", bounds.Max)
		return
	}

	if opts.Message != "" && bounds.HasMessageSlot() {
		hasMessage := count == bounds.Max
		switch {
		case !hasMessage && opts.Message == MessageAlways:
			ctx.Reportf(node, "Expected an assertion message, but found none.")
		case hasMessage && opts.Message == MessageNever:
			ctx.Reportf(node, "Expected no assertion message, but found one.")
		}
	}

	checkArgumentOrder(ctx, name, node, args)
}

func checkArgumentOrder(ctx *lint.Context, name string, call *sitter.Node, args []*sitter.Node) {
	switch {
	case avaast.ActualExpectedAssertions[name] && len(args) >= 2:
		left, right := args[0], args[1]
		if !outOfOrder(ctx, left, right) {
			return
		}
		ranges := avaast.ArgumentRanges(ctx.Tokens(), call)
		if len(ranges) < 2 {
			return
		}
		report := outOfOrderReport(ranges[0], ranges[1])
		if !avaast.HasAdjacentComments(ctx.Tokens(), left, right) {
			report.Fix = func() *domain.Fix {
				return &domain.Fix{Edits: avaast.SwapEdits(ctx.Tokens(), ranges[0], ranges[1])}
			}
		}
		ctx.Report(report)

	case avaast.RelationalAssertions[name] && len(args) >= 1:
		bin := parser.Unparen(args[0])
		if bin.Type() != "binary_expression" {
			return
		}
		op := bin.ChildByFieldName("operator")
		flipped, ok := avaast.FlipOperator(ctx.Text(op))
		if !ok {
			return
		}
		left, right := bin.ChildByFieldName("left"), bin.ChildByFieldName("right")
		if !outOfOrder(ctx, left, right) {
			return
		}
		parts, ok := avaast.BinaryComponents(ctx.Tokens(), bin)
		if !ok {
			return
		}
		report := outOfOrderReport(parts.Left, parts.Right)
		if !avaast.HasAdjacentComments(ctx.Tokens(), left, right, bin) {
			report.Fix = func() *domain.Fix {
				edits := avaast.SwapEdits(ctx.Tokens(), parts.Left, parts.Right)
				edits = append(edits, domain.TextEdit{Range: parts.Operator.Range, NewText: flipped})
				return &domain.Fix{Edits: edits}
			}
		}
		ctx.Report(report)
	}
}

// outOfOrder reports whether a static expected value precedes a dynamic actual value.
func outOfOrder(ctx *lint.Context, left, right *sitter.Node) bool {
	return avaast.IsStatic(left, ctx.Source()) && !avaast.IsStatic(right, ctx.Source())
}

func outOfOrderReport(left, right domain.Range) lint.Report {
	return lint.Report{
		Message: outOfOrderMessage,
		Range:   &domain.Range{Start: left.Start, End: right.End},
	}
}

func init() {
	lint.Register(AssertionArguments)
}

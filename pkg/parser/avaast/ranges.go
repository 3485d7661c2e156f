package avaast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser"
)

// ArgumentRanges returns, for each argument of call, the range from the first token after the
// preceding "(" or "," to the last token before the following "," or ")". Adjacent comments are
// included so swapping two ranges moves them along with their arguments.
func ArgumentRanges(tokens *parser.TokenStore, call *sitter.Node) []domain.Range {
	args := parser.CallArguments(call)
	ranges := make([]domain.Range, 0, len(args))

	for _, arg := range args {
		prev, ok := tokens.TokenBefore(int(arg.StartByte()), parser.WithText("(", ","))
		if !ok {
			return nil
		}
		next, ok := tokens.TokenAfter(int(arg.EndByte()), parser.WithText(",", ")"))
		if !ok {
			return nil
		}

		first, ok := tokens.TokenAfter(prev.Range.End, parser.IncludeComments())
		if !ok {
			return nil
		}
		last, ok := tokens.TokenBefore(next.Range.Start, parser.IncludeComments())
		if !ok || first.Range.Start > last.Range.End {
			return nil
		}

		ranges = append(ranges, domain.Range{Start: first.Range.Start, End: last.Range.End})
	}

	return ranges
}

// BinaryParts are the rewritable pieces of a binary expression.
type BinaryParts struct {
	Left     domain.Range
	Operator parser.Token
	Right    domain.Range
}

// BinaryComponents splits bin into its left operand range, operator token and right operand range.
// The left range runs from the token after the one preceding bin to the token before the operator;
// the right range is symmetric. Both include adjacent comments.
func BinaryComponents(tokens *parser.TokenStore, bin *sitter.Node) (BinaryParts, bool) {
	if bin == nil || bin.Type() != "binary_expression" {
		return BinaryParts{}, false
	}
	left := bin.ChildByFieldName("left")
	right := bin.ChildByFieldName("right")
	opNode := bin.ChildByFieldName("operator")
	if left == nil || right == nil || opNode == nil {
		return BinaryParts{}, false
	}

	opText := tokens.Text(parser.NodeRange(opNode))
	op, ok := tokens.FirstTokenBetween(int(left.EndByte()), int(right.StartByte()), parser.WithText(opText))
	if !ok {
		return BinaryParts{}, false
	}

	start := 0
	if prev, ok := tokens.TokenBefore(int(bin.StartByte())); ok {
		start = prev.Range.End
	}
	end := len(tokens.Source())
	if next, ok := tokens.TokenAfter(int(bin.EndByte())); ok {
		end = next.Range.Start
	}

	leftFirst, ok1 := tokens.TokenAfter(start, parser.IncludeComments())
	leftLast, ok2 := tokens.TokenBefore(op.Range.Start, parser.IncludeComments())
	rightFirst, ok3 := tokens.TokenAfter(op.Range.End, parser.IncludeComments())
	rightLast, ok4 := tokens.TokenBefore(end, parser.IncludeComments())
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return BinaryParts{}, false
	}

	parts := BinaryParts{
		Left:     domain.Range{Start: leftFirst.Range.Start, End: leftLast.Range.End},
		Operator: op,
		Right:    domain.Range{Start: rightFirst.Range.Start, End: rightLast.Range.End},
	}
	if parts.Left.Len() < 0 || parts.Right.Len() < 0 || parts.Left.End > parts.Right.Start {
		return BinaryParts{}, false
	}
	return parts, true
}

// HasAdjacentComments reports whether any node has a comment directly before or after it.
func HasAdjacentComments(tokens *parser.TokenStore, nodes ...*sitter.Node) bool {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if len(tokens.CommentsBefore(int(node.StartByte()))) > 0 {
			return true
		}
		if len(tokens.CommentsAfter(int(node.EndByte()))) > 0 {
			return true
		}
	}
	return false
}

// SwapEdits returns edits exchanging the text of two disjoint ranges.
func SwapEdits(tokens *parser.TokenStore, a, b domain.Range) []domain.TextEdit {
	return []domain.TextEdit{
		{Range: a, NewText: tokens.Text(b)},
		{Range: b, NewText: tokens.Text(a)},
	}
}

// ModifierRemoval returns edits deleting a modifier identifier and the "." token before it.
// Whitespace between the two is kept, so `test\n\t.only(` becomes `test\n\t(`.
func ModifierRemoval(tokens *parser.TokenStore, modifier Segment) []domain.TextEdit {
	if modifier.Kind != SegmentIdentifier || modifier.Node == nil {
		return nil
	}
	dot, ok := tokens.TokenBefore(int(modifier.Node.StartByte()))
	if !ok || dot.Text != "." {
		return nil
	}
	return []domain.TextEdit{
		{Range: dot.Range},
		{Range: parser.NodeRange(modifier.Node)},
	}
}

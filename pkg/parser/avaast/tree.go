package avaast

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/parser"
)

// Tree is a position-free expression tree. Parentheses and comments are dropped,
// string literals carry their cooked value and numbers their folded value.
type Tree struct {
	Type     string
	Value    string
	Children []*Tree
}

var ignoredPunctuation = map[string]bool{
	"(": true, ")": true,
	"[": true, "]": true,
	"{": true, "}": true,
	",": true, ";": true,
}

// Normalize builds the structural tree of node.
func Normalize(node *sitter.Node, source []byte) *Tree {
	return normalize(node, source, 0)
}

func normalize(node *sitter.Node, source []byte, depth int) *Tree {
	if node == nil || depth > parser.MaxTreeDepth {
		return nil
	}

	switch node.Type() {
	case "parenthesized_expression":
		inner := parser.NamedChildren(node)
		if len(inner) == 1 {
			return normalize(inner[0], source, depth+1)
		}
	case "string":
		return &Tree{Type: "string", Value: UnquoteString(parser.GetNodeText(node, source))}
	case "number":
		n, _ := parseNumberLiteral(parser.GetNodeText(node, source))
		return &Tree{Type: "number", Value: formatNumber(n)}
	case "template_string":
		return normalizeTemplate(node, source, depth)
	}

	tree := &Tree{Type: node.Type()}
	count := int(node.ChildCount())
	if count == 0 {
		tree.Value = parser.GetNodeText(node, source)
		return tree
	}

	for i := 0; i < count; i++ {
		child := node.Child(i)
		if child.Type() == "comment" {
			continue
		}
		if !child.IsNamed() {
			text := parser.GetNodeText(child, source)
			if ignoredPunctuation[text] {
				continue
			}
			tree.Children = append(tree.Children, &Tree{Type: "token", Value: text})
			continue
		}
		if sub := normalize(child, source, depth+1); sub != nil {
			tree.Children = append(tree.Children, sub)
		}
	}
	return tree
}

func normalizeTemplate(node *sitter.Node, source []byte, depth int) *Tree {
	tree := &Tree{Type: "template_string"}
	start := int(node.StartByte()) + 1
	end := int(node.EndByte()) - 1

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		tree.Children = append(tree.Children, &Tree{
			Type:  "template_chunk",
			Value: CookString(string(source[start:int(child.StartByte())])),
		})
		if inner := parser.NamedChildren(child); len(inner) == 1 {
			tree.Children = append(tree.Children, normalize(inner[0], source, depth+1))
		}
		start = int(child.EndByte())
	}

	chunk := ""
	if start <= end {
		chunk = CookString(string(source[start:end]))
	}
	tree.Children = append(tree.Children, &Tree{Type: "template_chunk", Value: chunk})
	return tree
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b *Tree) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Value != b.Value || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// Fingerprint hashes the tree's canonical form. Equal trees share a fingerprint.
func (t *Tree) Fingerprint() uint64 {
	d := xxhash.New()
	t.writeCanonical(d)
	return d.Sum64()
}

func (t *Tree) writeCanonical(d *xxhash.Digest) {
	if t == nil {
		_, _ = d.WriteString("nil;")
		return
	}
	_, _ = d.WriteString(strconv.Itoa(len(t.Type)))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(t.Type)
	_, _ = d.WriteString(strconv.Itoa(len(t.Value)))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(t.Value)
	_, _ = d.WriteString("(")
	for _, c := range t.Children {
		c.writeCanonical(d)
	}
	_, _ = d.WriteString(")")
}

// String renders the tree as an s-expression.
func (t *Tree) String() string {
	if t == nil {
		return "nil"
	}
	s := "(" + t.Type
	if t.Value != "" {
		s += " " + strconv.Quote(t.Value)
	}
	for _, c := range t.Children {
		s += " " + c.String()
	}
	return s + ")"
}

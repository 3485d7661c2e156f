package avaast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/parser"
)

// TestDefinition is a call registering a test or hook, such as `test.serial.cb('title', fn)`.
type TestDefinition struct {
	Call      *sitter.Node
	Chain     Chain
	Modifiers []Segment
}

// HasModifier reports whether name appears anywhere in the modifier chain.
func (d *TestDefinition) HasModifier(name string) bool {
	for _, m := range d.Modifiers {
		if m.Name == name {
			return true
		}
	}
	return false
}

// HasHookModifier reports whether the definition registers a hook rather than a test.
func (d *TestDefinition) HasHookModifier() bool {
	for _, m := range d.Modifiers {
		if HookModifiers[m.Name] {
			return true
		}
	}
	return false
}

// Modifier returns the first modifier segment with the given name.
func (d *TestDefinition) Modifier(name string) (Segment, bool) {
	for _, m := range d.Modifiers {
		if m.Name == name {
			return m, true
		}
	}
	return Segment{}, false
}

// Args returns the call arguments.
func (d *TestDefinition) Args() []*sitter.Node {
	return parser.CallArguments(d.Call)
}

// Title returns the title argument: the first argument when a body follows it, or always for todo tests.
func (d *TestDefinition) Title() *sitter.Node {
	args := d.Args()
	if len(args) == 0 {
		return nil
	}
	if len(args) > 1 || d.HasModifier(ModifierTodo) {
		return args[0]
	}
	return nil
}

// TestCall classifies node as a test definition. It returns nil for anything else.
func TestCall(node *sitter.Node, source []byte) *TestDefinition {
	if !parser.IsCall(node) {
		return nil
	}

	chain := ExtractChain(node, source)
	if chain.IsZero() || chain.RootName() != TestObject {
		return nil
	}

	for _, s := range chain.Segments {
		if s.Kind != SegmentIdentifier || !Modifiers[s.Name] {
			return nil
		}
	}

	return &TestDefinition{
		Call:      node,
		Chain:     chain,
		Modifiers: chain.Segments,
	}
}

// DuplicateModifier returns the first modifier that repeats an earlier one in source order.
func DuplicateModifier(def *TestDefinition) (Segment, bool) {
	seen := make(map[string]bool, len(def.Modifiers))
	for _, m := range def.Modifiers {
		if seen[m.Name] {
			return m, true
		}
		seen[m.Name] = true
	}
	return Segment{}, false
}

// MemberStats splits execution context members into skip, assertion method and unknown names.
type MemberStats struct {
	Skip   []string
	Method []string
	Other  []string
}

// NewMemberStats classifies names in order. Every `skip` counts, wherever it appears.
func NewMemberStats(names []string) MemberStats {
	var stats MemberStats
	for _, name := range names {
		switch {
		case name == ModifierSkip:
			stats.Skip = append(stats.Skip, name)
		case AssertionMethods[name]:
			stats.Method = append(stats.Method, name)
		default:
			stats.Other = append(stats.Other, name)
		}
	}
	return stats
}

// AssertionName returns the assertion a `t` chain invokes, ignoring skip segments.
// ok is false when the chain is not rooted at `t`, goes through `t.context`, or has no members.
func AssertionName(chain Chain) (name string, ok bool) {
	if chain.IsZero() || chain.RootName() != ContextObject || chain.HasIntermediateCall() {
		return "", false
	}
	for _, n := range chain.Names() {
		if n == ModifierSkip {
			continue
		}
		if n == ContextMember {
			return "", false
		}
		return n, true
	}
	return "", false
}

// IsContextAccess reports whether names start with `context`.
func IsContextAccess(names []string) bool {
	return len(names) > 0 && names[0] == ContextMember
}

// IsAVAImport reports whether node is `import ... from 'ava'`.
func IsAVAImport(node *sitter.Node, source []byte) bool {
	if node == nil || node.Type() != "import_statement" {
		return false
	}
	src := node.ChildByFieldName("source")
	return src != nil && src.Type() == "string" && UnquoteString(parser.GetNodeText(src, source)) == ModuleName
}

// IsAVARequire reports whether node is `require('ava')`.
func IsAVARequire(node *sitter.Node, source []byte) bool {
	if !parser.IsCall(node) {
		return false
	}
	callee := node.ChildByFieldName("function")
	if callee == nil || callee.Type() != "identifier" || parser.GetNodeText(callee, source) != "require" {
		return false
	}
	args := parser.CallArguments(node)
	return len(args) > 0 && args[0].Type() == "string" && UnquoteString(parser.GetNodeText(args[0], source)) == ModuleName
}

// IsStaticTitle reports whether a title is built only from literals: plain literals,
// templates whose substitutions are static titles, and binary expressions of static titles.
func IsStaticTitle(node *sitter.Node) bool {
	node = parser.Unparen(node)
	if node == nil {
		return false
	}

	switch node.Type() {
	case "string", "number", "regex", "true", "false", "null":
		return true
	case "template_string":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() != "template_substitution" {
				continue
			}
			inner := parser.NamedChildren(child)
			if len(inner) != 1 || !IsStaticTitle(inner[0]) {
				return false
			}
		}
		return true
	case "binary_expression":
		return IsStaticTitle(node.ChildByFieldName("left")) && IsStaticTitle(node.ChildByFieldName("right"))
	default:
		return false
	}
}

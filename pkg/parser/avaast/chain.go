// Package avaast classifies AVA test and assertion expressions in tree-sitter JavaScript trees.
package avaast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/parser"
)

type SegmentKind int

const (
	SegmentIdentifier SegmentKind = iota
	SegmentCall
)

// Segment is one link of a member chain: a property name or an intermediate call.
type Segment struct {
	Kind SegmentKind
	Name string
	// Node is the property identifier or the intermediate call_expression.
	Node *sitter.Node
}

// Chain is a member-access chain in left-to-right source order.
// `test.serial.cb(fn)` has root `test`, segments `serial` and `cb`, and Call set to the whole call.
type Chain struct {
	Root     Segment
	Segments []Segment
	// Call is the terminal call_expression, nil for bare member accesses.
	Call *sitter.Node
}

// IsZero reports whether the expression did not match a chain shape.
func (c Chain) IsZero() bool {
	return c.Root.Node == nil
}

// RootName returns the root identifier name, or "" for an empty chain.
func (c Chain) RootName() string {
	return c.Root.Name
}

// Names returns the identifier segment names after the root.
func (c Chain) Names() []string {
	names := make([]string, 0, len(c.Segments))
	for _, s := range c.Segments {
		if s.Kind == SegmentIdentifier {
			names = append(names, s.Name)
		}
	}
	return names
}

// HasIntermediateCall reports whether a call appears between the root and the tail.
func (c Chain) HasIntermediateCall() bool {
	for _, s := range c.Segments {
		if s.Kind == SegmentCall {
			return true
		}
	}
	return false
}

// Arguments returns the terminal call's arguments.
func (c Chain) Arguments() []*sitter.Node {
	return parser.CallArguments(c.Call)
}

// ExtractChain walks a call_expression, member_expression or identifier down to its root identifier.
// Computed access, optional chaining and non-identifier roots yield an empty chain.
func ExtractChain(node *sitter.Node, source []byte) Chain {
	if node == nil {
		return Chain{}
	}

	var chain Chain
	current := node
	if node.Type() == "call_expression" {
		chain.Call = node
		current = node.ChildByFieldName("function")
	}

	var reversed []Segment
	for depth := 0; current != nil && depth < parser.MaxTreeDepth; depth++ {
		switch current.Type() {
		case "identifier":
			chain.Root = Segment{
				Kind: SegmentIdentifier,
				Name: parser.GetNodeText(current, source),
				Node: current,
			}
			chain.Segments = make([]Segment, 0, len(reversed))
			for i := len(reversed) - 1; i >= 0; i-- {
				chain.Segments = append(chain.Segments, reversed[i])
			}
			return chain
		case "member_expression":
			if isOptionalMember(current) {
				return Chain{}
			}
			property := current.ChildByFieldName("property")
			if property == nil || property.Type() != "property_identifier" {
				return Chain{}
			}
			reversed = append(reversed, Segment{
				Kind: SegmentIdentifier,
				Name: parser.GetNodeText(property, source),
				Node: property,
			})
			current = current.ChildByFieldName("object")
		case "call_expression":
			reversed = append(reversed, Segment{Kind: SegmentCall, Node: current})
			current = current.ChildByFieldName("function")
		default:
			return Chain{}
		}
	}

	return Chain{}
}

func isOptionalMember(member *sitter.Node) bool {
	for i := 0; i < int(member.ChildCount()); i++ {
		switch member.Child(i).Type() {
		case "optional_chain", "?.":
			return true
		}
	}
	return false
}

// Members returns the identifier names below the root of a member expression.
func Members(member *sitter.Node, source []byte) []string {
	chain := ExtractChain(member, source)
	if chain.IsZero() {
		return nil
	}
	return chain.Names()
}

// RootName returns the root identifier name of a member expression or call.
func RootName(node *sitter.Node, source []byte) string {
	return ExtractChain(node, source).RootName()
}

// SameNode reports whether a and b denote the same syntax node.
func SameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser/tspool"
)

const MaxTreeDepth = tspool.MaxTreeDepth

// File is a parsed source file together with its token store.
// Caller must call Close to free the tree-sitter tree.
type File struct {
	Path     string
	Language domain.Language
	Source   []byte
	Tree     *sitter.Tree
	Tokens   *TokenStore
}

// ParseFile parses source with the grammar matching path's extension.
func ParseFile(ctx context.Context, path string, source []byte) (*File, error) {
	lang := domain.DetectLanguage(path)

	tree, err := tspool.Parse(ctx, lang, source)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, fmt.Errorf("parse %s: empty tree", path)
	}

	return &File{
		Path:     path,
		Language: lang,
		Source:   source,
		Tree:     tree,
		Tokens:   NewTokenStore(root, source),
	}, nil
}

// Root returns the program node.
func (f *File) Root() *sitter.Node {
	return f.Tree.RootNode()
}

// Close releases the underlying tree.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
// Bounds are checked before calling into tree-sitter and panics are recovered.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// NodeRange returns the byte range covered by node.
func NodeRange(node *sitter.Node) domain.Range {
	return domain.Range{Start: int(node.StartByte()), End: int(node.EndByte())}
}

// FindChildByType returns the first direct child with the given node type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// NamedChildren returns the named children of node, skipping comments.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	var children []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

// IsCall reports whether node is a call with a parenthesized argument list.
// Tagged templates are call_expression nodes too but are not calls here.
func IsCall(node *sitter.Node) bool {
	if node == nil || node.Type() != "call_expression" {
		return false
	}
	args := node.ChildByFieldName("arguments")
	return args != nil && args.Type() == "arguments"
}

// CallArguments returns the argument expressions of a call_expression in source order.
// Tagged templates and non-call nodes yield nil.
func CallArguments(call *sitter.Node) []*sitter.Node {
	if !IsCall(call) {
		return nil
	}
	return NamedChildren(call.ChildByFieldName("arguments"))
}

// Unparen strips any enclosing parenthesized_expression wrappers.
func Unparen(node *sitter.Node) *sitter.Node {
	for node != nil && node.Type() == "parenthesized_expression" {
		inner := NamedChildren(node)
		if len(inner) != 1 {
			return node
		}
		node = inner[0]
	}
	return node
}

func walkTreeWithDepth(node *sitter.Node, visitor func(*sitter.Node) bool, depth int) {
	if depth > tspool.MaxTreeDepth {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTreeWithDepth(node.Child(i), visitor, depth+1)
	}
}

// WalkTree recursively visits all nodes in the AST.
// The visitor function returns false to stop traversing into children.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	walkTreeWithDepth(node, visitor, 0)
}

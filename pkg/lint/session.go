package lint

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/parser/avaast"
)

// Session is the traversal state of one file: whether AVA was imported and
// which test definitions enclose the current node.
type Session struct {
	source   []byte
	testFile bool
	stack    []*avaast.TestDefinition
}

// NewSession creates the state for traversing source.
func NewSession(source []byte) *Session {
	return &Session{source: source}
}

// MarkTestFile records that the file imports or requires AVA.
func (s *Session) MarkTestFile() {
	s.testFile = true
}

// IsTestFile reports whether an AVA import has been seen so far.
func (s *Session) IsTestFile() bool {
	return s.testFile
}

// Enter pushes node when it is a test definition and returns the definition.
func (s *Session) Enter(node *sitter.Node) *avaast.TestDefinition {
	def := avaast.TestCall(node, s.source)
	if def != nil {
		s.stack = append(s.stack, def)
	}
	return def
}

// Exit pops node when it is the innermost test definition.
func (s *Session) Exit(node *sitter.Node) {
	if s.IsTestNode(node) {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Depth returns how many test definitions enclose the current node, counting the node itself.
func (s *Session) Depth() int {
	return len(s.stack)
}

// InTestBody reports whether traversal is inside a test definition.
func (s *Session) InTestBody() bool {
	return len(s.stack) > 0
}

// CurrentTest returns the innermost test definition, or nil.
func (s *Session) CurrentTest() *avaast.TestDefinition {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}

// IsTestNode reports whether node is the innermost test definition.
func (s *Session) IsTestNode(node *sitter.Node) bool {
	current := s.CurrentTest()
	return current != nil && avaast.SameNode(current.Call, node)
}

// Reset clears all state at the end of a file.
func (s *Session) Reset() {
	s.testFile = false
	s.stack = nil
}

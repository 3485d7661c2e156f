package lint

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

// Report is a problem found by a rule.
type Report struct {
	// Node is reported when Range is nil.
	Node *sitter.Node

	Message string

	// Range overrides the node span.
	Range *domain.Range

	// Fix builds the rewrite lazily. It may return nil when no safe rewrite exists.
	Fix func() *domain.Fix
}

// Context is what a rule sees while one file is traversed.
type Context struct {
	rule     *Rule
	severity domain.Severity
	options  any
	file     *parser.File
	session  *Session
	report   func(domain.Diagnostic)
}

// Rule returns the rule this context was created for.
func (c *Context) Rule() *Rule { return c.rule }

// Options returns the parsed rule options, or nil.
func (c *Context) Options() any { return c.options }

// Path returns the file path.
func (c *Context) Path() string { return c.file.Path }

// Source returns the full source text.
func (c *Context) Source() []byte { return c.file.Source }

// Tokens returns the file's token store.
func (c *Context) Tokens() *parser.TokenStore { return c.file.Tokens }

// Session returns the shared traversal state.
func (c *Context) Session() *Session { return c.session }

// Text returns the source text of node.
func (c *Context) Text(node *sitter.Node) string {
	return parser.GetNodeText(node, c.file.Source)
}

// Report records a problem. Fixes of rules not marked fixable are dropped.
func (c *Context) Report(r Report) {
	var rng domain.Range
	switch {
	case r.Range != nil:
		rng = *r.Range
	case r.Node != nil:
		rng = parser.NodeRange(r.Node)
	default:
		return
	}

	d := domain.Diagnostic{
		Rule:     c.rule.Name,
		Message:  r.Message,
		Severity: c.severity,
		Location: c.file.Tokens.Locate(c.file.Path, rng),
		Range:    rng,
	}
	if r.Fix != nil && c.rule.Fixable {
		if fix := r.Fix(); fix != nil && len(fix.Edits) > 0 {
			d.Fix = fix
		}
	}
	c.report(d)
}

// Reportf records a problem at node with a formatted message.
func (c *Context) Reportf(node *sitter.Node, format string, args ...any) {
	c.Report(Report{Node: node, Message: fmt.Sprintf(format, args...)})
}

// InTestFile is a guard accepting nodes once AVA has been imported.
func (c *Context) InTestFile(*sitter.Node) bool {
	return c.session.IsTestFile()
}

// InTestBody is a guard accepting nodes inside a test definition.
func (c *Context) InTestBody(*sitter.Node) bool {
	return c.session.InTestBody()
}

// IsTestNode is a guard accepting the innermost test definition call itself.
func (c *Context) IsTestNode(node *sitter.Node) bool {
	return c.session.IsTestNode(node)
}

// HasNoHookModifier is a guard accepting test definitions that are not hooks.
func (c *Context) HasNoHookModifier(node *sitter.Node) bool {
	def := c.TestDefinition(node)
	return def != nil && !def.HasHookModifier()
}

// TestDefinition returns the definition for node when node is the innermost test call.
func (c *Context) TestDefinition(node *sitter.Node) *avaast.TestDefinition {
	if !c.session.IsTestNode(node) {
		return nil
	}
	return c.session.CurrentTest()
}

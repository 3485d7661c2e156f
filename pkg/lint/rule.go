// Package lint runs AVA rules over parsed JavaScript and TypeScript files.
//
// Each check is a Rule that, per file, creates a Visitor: a set of handlers keyed
// by traversal Selector. The Linter walks the tree once, maintains the per-file
// Session, dispatches handlers and collects diagnostics.
package lint

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
)

// Rule defines a single lint check.
type Rule struct {
	// Name is a short identifier for this check (e.g. "no-only-test").
	Name string

	// Doc is a human-readable description. The first line is a short summary.
	Doc string

	// Severity is the default severity for diagnostics from this rule.
	Severity domain.Severity

	// Recommended rules are enabled when no configuration says otherwise.
	Recommended bool

	// Fixable rules may attach fixes to their diagnostics.
	Fixable bool

	// ParseOptions validates raw configuration and returns the typed options
	// handed to Create. Nil means the rule takes no options.
	ParseOptions func(raw any) (any, error)

	// Create returns the visitor for one file traversal.
	Create func(ctx *Context) Visitor
}

// Options validates raw options for the rule, returning the rule default for nil input.
func (r *Rule) Options(raw any) (any, error) {
	if r.ParseOptions == nil {
		if raw != nil {
			return nil, fmt.Errorf("rule %s: takes no options", r.Name)
		}
		return nil, nil
	}
	opts, err := r.ParseOptions(raw)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", r.Name, err)
	}
	return opts, nil
}

// Selector names a traversal event.
type Selector int

const (
	EnterProgram Selector = iota
	ExitProgram
	EnterCall
	ExitCall
	EnterMember
)

func (s Selector) String() string {
	switch s {
	case EnterProgram:
		return "Program"
	case ExitProgram:
		return "Program:exit"
	case EnterCall:
		return "CallExpression"
	case ExitCall:
		return "CallExpression:exit"
	case EnterMember:
		return "MemberExpression"
	default:
		return "unknown"
	}
}

// Handler is called with the node a traversal event fired for.
type Handler func(node *sitter.Node)

// Visitor maps selectors to handlers.
type Visitor map[Selector]Handler

// Guard is a predicate gating a handler.
type Guard func(node *sitter.Node) bool

// VisitIf wraps a handler so it only runs when every guard accepts the node.
// Guards run in order and stop at the first rejection.
func VisitIf(guards ...Guard) func(Handler) Handler {
	return func(h Handler) Handler {
		return func(node *sitter.Node) {
			for _, g := range guards {
				if !g(node) {
					return
				}
			}
			h(node)
		}
	}
}

package lint

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser"
	"github.com/specvital/avalint/pkg/parser/avaast"
)

// ErrParse marks failures to build a syntax tree, as opposed to rule failures.
var ErrParse = errors.New("lint: parse failed")

// ConfiguredRule is a rule with its effective severity and parsed options.
type ConfiguredRule struct {
	Rule     *Rule
	Severity domain.Severity
	Options  any
}

// Configure validates raw options and binds them to rule. Rules configured
// with SeverityOff are skipped by the linter.
func Configure(rule *Rule, severity domain.Severity, raw any) (ConfiguredRule, error) {
	opts, err := rule.Options(raw)
	if err != nil {
		return ConfiguredRule{}, err
	}
	return ConfiguredRule{Rule: rule, Severity: severity, Options: opts}, nil
}

// Defaults configures every recommended rule with its default severity and options.
func Defaults(rules []*Rule) []ConfiguredRule {
	var out []ConfiguredRule
	for _, r := range rules {
		if !r.Recommended {
			continue
		}
		cr, err := Configure(r, r.Severity, nil)
		if err != nil {
			continue
		}
		out = append(out, cr)
	}
	return out
}

// Linter runs a set of rules over source files.
type Linter struct {
	Rules  []ConfiguredRule
	Logger *logrus.Logger
}

// New creates a linter for the given rules.
func New(rules ...ConfiguredRule) *Linter {
	return &Linter{Rules: rules, Logger: logrus.StandardLogger()}
}

func (l *Linter) logger() *logrus.Logger {
	if l.Logger == nil {
		return logrus.StandardLogger()
	}
	return l.Logger
}

// LintFile parses source and runs every enabled rule over it.
func (l *Linter) LintFile(ctx context.Context, path string, source []byte) (*domain.FileReport, error) {
	file, err := parser.ParseFile(ctx, path, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	defer file.Close()

	diags, isTest, err := l.Lint(file)
	if err != nil {
		return nil, err
	}
	return &domain.FileReport{
		Diagnostics: diags,
		IsTestFile:  isTest,
		Language:    file.Language,
		Path:        path,
	}, nil
}

// Lint traverses an already parsed file once, dispatching rule visitors.
// It returns the sorted diagnostics and whether the file imports AVA.
func (l *Linter) Lint(file *parser.File) (diags []domain.Diagnostic, isTestFile bool, err error) {
	session := NewSession(file.Source)
	collect := func(d domain.Diagnostic) {
		diags = append(diags, d)
	}

	var visitors []Visitor
	for i := range l.Rules {
		cr := &l.Rules[i]
		if cr.Severity == domain.SeverityOff || cr.Rule.Create == nil {
			continue
		}
		rc := &Context{
			rule:     cr.Rule,
			severity: cr.Severity,
			options:  cr.Options,
			file:     file,
			session:  session,
			report:   collect,
		}
		visitors = append(visitors, cr.Rule.Create(rc))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lint %s: %v", file.Path, r)
		}
	}()

	w := &walker{source: file.Source, session: session, visitors: visitors}
	root := file.Root()
	w.dispatch(EnterProgram, root)
	w.walk(root, 0)
	w.dispatch(ExitProgram, root)
	isTestFile = session.IsTestFile()
	session.Reset()

	SortDiagnostics(diags)
	l.logger().WithFields(logrus.Fields{
		"file":        file.Path,
		"diagnostics": len(diags),
		"testFile":    isTestFile,
	}).Debug("linted file")
	return diags, isTestFile, nil
}

type walker struct {
	source   []byte
	session  *Session
	visitors []Visitor
}

func (w *walker) dispatch(sel Selector, node *sitter.Node) {
	for _, v := range w.visitors {
		if h := v[sel]; h != nil {
			h(node)
		}
	}
}

func (w *walker) walk(node *sitter.Node, depth int) {
	if node == nil || depth > parser.MaxTreeDepth {
		return
	}

	switch node.Type() {
	case "import_statement":
		if avaast.IsAVAImport(node, w.source) {
			w.session.MarkTestFile()
		}
	case "call_expression":
		if !parser.IsCall(node) {
			break
		}
		if avaast.IsAVARequire(node, w.source) {
			w.session.MarkTestFile()
		}
		w.session.Enter(node)
		w.dispatch(EnterCall, node)
	case "member_expression":
		w.dispatch(EnterMember, node)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), depth+1)
	}

	if parser.IsCall(node) {
		w.dispatch(ExitCall, node)
		w.session.Exit(node)
	}
}

// SortDiagnostics orders diagnostics by position, then rule name and message.
func SortDiagnostics(diags []domain.Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Location.File != b.Location.File {
			return a.Location.File < b.Location.File
		}
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Range.End != b.Range.End {
			return a.Range.End < b.Range.End
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})
}

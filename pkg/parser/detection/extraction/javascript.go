// Package extraction pulls module specifiers and content signals out of JavaScript sources.
package extraction

import (
	"bytes"
	"context"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser/tspool"
)

const (
	// ES6 imports: import x from 'y', import { x } from 'y', import 'y'
	jsImportQuery = `
		(import_statement
			source: (string) @import
		)
	`

	// CommonJS: require('x'), require("x")
	jsRequireQuery = `
		(call_expression
			function: (identifier) @func (#eq? @func "require")
			arguments: (arguments (string) @import)
		)
	`
)

var commentStripRegex = regexp.MustCompile(`//.*|/\*[\s\S]*?\*/`)

var jsImportPattern = regexp.MustCompile(`(?:import\s+[^;]*?\s+from|import|require\()\s*['"]([^'"]+)['"]`)

// ExtractJSImports returns module specifiers using a regular expression.
// It is the fallback when the source cannot be parsed.
func ExtractJSImports(_ context.Context, content []byte) []string {
	matches := jsImportPattern.FindAllSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	imports := make([]string, 0, len(matches))
	for _, match := range matches {
		if len(match) > 1 {
			imports = append(imports, string(match[1]))
		}
	}
	return imports
}

// ModuleSpecifiers returns the distinct modules imported or required by content, in source order.
func ModuleSpecifiers(ctx context.Context, lang domain.Language, content []byte) []string {
	tree, err := tspool.Parse(ctx, lang, content)
	if err != nil {
		return dedupe(ExtractJSImports(ctx, content))
	}
	defer tree.Close()

	return TreeModuleSpecifiers(tree.RootNode(), content, lang)
}

// TreeModuleSpecifiers runs the import and require queries over an already parsed tree.
// Query errors are ignored so one import style can still report when the other fails.
func TreeModuleSpecifiers(root *sitter.Node, content []byte, lang domain.Language) []string {
	type located struct {
		start uint32
		path  string
	}
	var found []located

	for _, query := range []string{jsImportQuery, jsRequireQuery} {
		results, err := tspool.QueryWithCache(root, content, lang, query)
		if err != nil {
			continue
		}
		for _, r := range results {
			node, ok := r.Captures["import"]
			if !ok {
				continue
			}
			path := trimJSQuotes(node.Content(content))
			if path == "" {
				continue
			}
			found = append(found, located{start: node.StartByte(), path: path})
		}
	}

	// Imports and requires come from separate queries; restore source order.
	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	paths := make([]string, 0, len(found))
	for _, f := range found {
		paths = append(paths, f.path)
	}
	return dedupe(paths)
}

func dedupe(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}

func trimJSQuotes(s string) string {
	if len(s) < 2 {
		return ""
	}
	first, last := s[0], s[len(s)-1]
	if (first == '\'' || first == '"' || first == '`') && first == last {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return ""
}

// MatchPatternExcludingComments checks if pattern matches content after stripping comments.
// Uses tree-sitter TypeScript parser (handles JS too) to accurately identify comment nodes,
// avoiding false positives from comment-like patterns inside string literals (e.g., "**/*.ts").
// Falls back to regex-based stripping if tree-sitter parsing fails.
func MatchPatternExcludingComments(ctx context.Context, content []byte, pattern *regexp.Regexp) bool {
	if !bytes.Contains(content, []byte("//")) && !bytes.Contains(content, []byte("/*")) {
		return pattern.Match(content)
	}

	tree, err := tspool.Parse(ctx, domain.LanguageTypeScript, content)
	if err != nil {
		noComments := commentStripRegex.ReplaceAll(content, []byte{})
		return pattern.Match(noComments)
	}
	defer tree.Close()

	return pattern.Match(removeCommentNodes(tree.RootNode(), content))
}

func removeCommentNodes(root *sitter.Node, content []byte) []byte {
	var commentRanges [][2]uint32
	collectCommentRanges(root, &commentRanges, 0)

	if len(commentRanges) == 0 {
		return content
	}

	result := make([]byte, 0, len(content))
	lastEnd := uint32(0)

	for _, commentRange := range commentRanges {
		if commentRange[0] < lastEnd {
			continue
		}
		if commentRange[0] > lastEnd {
			result = append(result, content[lastEnd:commentRange[0]]...)
		}
		lastEnd = commentRange[1]
	}

	if lastEnd < uint32(len(content)) {
		result = append(result, content[lastEnd:]...)
	}

	return result
}

func collectCommentRanges(node *sitter.Node, ranges *[][2]uint32, depth int) {
	if depth > tspool.MaxTreeDepth {
		return
	}

	if node.Type() == "comment" {
		*ranges = append(*ranges, [2]uint32{node.StartByte(), node.EndByte()})
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectCommentRanges(node.Child(i), ranges, depth+1)
	}
}

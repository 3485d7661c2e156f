package parser_test

import (
	"context"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser"
)

func firstOfType(root *sitter.Node, nodeType string) *sitter.Node {
	var found *sitter.Node
	parser.WalkTree(root, func(n *sitter.Node) bool {
		if found == nil && n.Type() == nodeType {
			found = n
		}
		return found == nil
	})
	return found
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want domain.Language
	}{
		{name: "should parse JavaScript", path: "a.test.js", want: domain.LanguageJavaScript},
		{name: "should parse TypeScript", path: "a.test.ts", want: domain.LanguageTypeScript},
		{name: "should parse TSX", path: "a.test.tsx", want: domain.LanguageTSX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file, err := parser.ParseFile(context.Background(), tt.path, []byte("const x = 1;\n"))
			require.NoError(t, err)
			defer file.Close()

			assert.Equal(t, tt.want, file.Language)
			assert.Equal(t, "program", file.Root().Type())
			assert.NotNil(t, file.Tokens)
		})
	}
}

func TestFile_Close(t *testing.T) {
	t.Parallel()

	file, err := parser.ParseFile(context.Background(), "a.js", []byte("x;"))
	require.NoError(t, err)

	file.Close()
	file.Close()
	assert.Nil(t, file.Tree)
}

func TestIsCall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   bool
	}{
		{name: "should accept a plain call", source: "test('a', t => {});", want: true},
		{name: "should accept a member call", source: "test.only();", want: true},
		{name: "should reject a tagged template", source: "test`title`;", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			file := parseJS(t, tt.source)

			call := firstOfType(file.Root(), "call_expression")
			require.NotNil(t, call)
			assert.Equal(t, tt.want, parser.IsCall(call))
		})
	}

	assert.False(t, parser.IsCall(nil))
}

func TestCallArguments_Shapes(t *testing.T) {
	t.Parallel()

	source := "t.is(a, /* note */ b,);"
	file := parseJS(t, source)

	call := firstOfType(file.Root(), "call_expression")
	require.NotNil(t, call)

	var texts []string
	for _, arg := range parser.CallArguments(call) {
		texts = append(texts, parser.GetNodeText(arg, file.Source))
	}
	assert.Equal(t, []string{"a", "b"}, texts)

	tagged := firstOfType(parseJS(t, "t`x`;").Root(), "call_expression")
	require.NotNil(t, tagged)
	assert.Nil(t, parser.CallArguments(tagged))
}

func TestUnparen(t *testing.T) {
	t.Parallel()

	file := parseJS(t, "((a < b));")

	paren := firstOfType(file.Root(), "parenthesized_expression")
	require.NotNil(t, paren)

	inner := parser.Unparen(paren)
	assert.Equal(t, "binary_expression", inner.Type())
	assert.Equal(t, "a < b", parser.GetNodeText(inner, file.Source))
}

func TestGetNodeText(t *testing.T) {
	t.Parallel()

	file := parseJS(t, "foo(bar);")
	call := firstOfType(file.Root(), "call_expression")
	require.NotNil(t, call)

	assert.Equal(t, "foo(bar)", parser.GetNodeText(call, file.Source))
	assert.Equal(t, "", parser.GetNodeText(call, []byte("foo")))
	assert.Equal(t, "", parser.GetNodeText(nil, file.Source))
	assert.Equal(t, domain.Range{Start: 0, End: 8}, parser.NodeRange(call))
}

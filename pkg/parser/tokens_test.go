package parser_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser"
)

func parseJS(t *testing.T, source string) *parser.File {
	t.Helper()

	file, err := parser.ParseFile(context.Background(), "test.js", []byte(source))
	require.NoError(t, err)
	t.Cleanup(file.Close)
	return file
}

func tokenTexts(tokens []parser.Token) []string {
	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	return texts
}

func TestNewTokenStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "should split a call into tokens",
			source: "t.is(a, b);",
			want:   []string{"t", ".", "is", "(", "a", ",", "b", ")", ";"},
		},
		{
			name:   "should keep comments as single tokens",
			source: "t.is(a, /* c */ b);",
			want:   []string{"t", ".", "is", "(", "a", ",", "/* c */", "b", ")", ";"},
		},
		{
			name:   "should keep string literals atomic",
			source: "test('a b', fn);",
			want:   []string{"test", "(", "'a b'", ",", "fn", ")", ";"},
		},
		{
			name:   "should split templates around substitutions",
			source: "test(`a${x}b`);",
			want:   []string{"test", "(", "`a${", "x", "}b`", ")", ";"},
		},
		{
			name:   "should keep regex literals atomic",
			source: "t.regex(s, /a b/g);",
			want:   []string{"t", ".", "regex", "(", "s", ",", "/a b/g", ")", ";"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file := parseJS(t, tt.source)
			got := tokenTexts(file.Tokens.Tokens())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenStore_Lookup(t *testing.T) {
	t.Parallel()

	source := "t.is(a, /* c */ b);"
	file := parseJS(t, source)
	tokens := file.Tokens
	bOffset := strings.Index(source, "b)")

	t.Run("should skip comments by default", func(t *testing.T) {
		t.Parallel()

		tok, ok := tokens.TokenBefore(bOffset)
		require.True(t, ok)
		if tok.Text != "," {
			t.Errorf("expected ',', got %q", tok.Text)
		}
	})

	t.Run("should include comments when asked", func(t *testing.T) {
		t.Parallel()

		tok, ok := tokens.TokenBefore(bOffset, parser.IncludeComments())
		require.True(t, ok)
		if !tok.IsComment() {
			t.Errorf("expected comment, got %q", tok.Text)
		}
	})

	t.Run("should apply text filters", func(t *testing.T) {
		t.Parallel()

		tok, ok := tokens.TokenBefore(bOffset, parser.WithText("("))
		require.True(t, ok)
		if tok.Range.Start != 4 {
			t.Errorf("expected '(' at 4, got %d", tok.Range.Start)
		}
	})

	t.Run("should find the next token", func(t *testing.T) {
		t.Parallel()

		tok, ok := tokens.TokenAfter(bOffset + 1)
		require.True(t, ok)
		if tok.Text != ")" {
			t.Errorf("expected ')', got %q", tok.Text)
		}
	})

	t.Run("should report missing tokens", func(t *testing.T) {
		t.Parallel()

		if _, ok := tokens.TokenAfter(len(source)); ok {
			t.Error("expected no token after end of source")
		}
		if _, ok := tokens.TokenBefore(0); ok {
			t.Error("expected no token before start of source")
		}
	})

	t.Run("should find first token between offsets", func(t *testing.T) {
		t.Parallel()

		tok, ok := tokens.FirstTokenBetween(0, len(source), parser.WithText(","))
		require.True(t, ok)
		if tok.Range.Start != 6 {
			t.Errorf("expected ',' at 6, got %d", tok.Range.Start)
		}
		if _, ok := tokens.FirstTokenBetween(0, 4, parser.WithText(",")); ok {
			t.Error("expected no ',' within first four bytes")
		}
	})

	t.Run("should collect adjacent comments", func(t *testing.T) {
		t.Parallel()

		before := tokens.CommentsBefore(bOffset)
		if diff := cmp.Diff([]string{"/* c */"}, tokenTexts(before)); diff != "" {
			t.Errorf("comments before mismatch (-want +got):\n%s", diff)
		}
		if after := tokens.CommentsAfter(bOffset + 1); len(after) != 0 {
			t.Errorf("expected no comments after b, got %v", tokenTexts(after))
		}
	})
}

func TestTokenStore_Position(t *testing.T) {
	t.Parallel()

	source := "const é = 1;\ntest('ü', t => {\n\tt.pass();\n});\n"
	file := parseJS(t, source)

	tests := []struct {
		name   string
		offset int
		want   domain.Position
	}{
		{name: "should start at line 1 column 1", offset: 0, want: domain.Position{Line: 1, Col: 1}},
		{name: "should count runes in columns", offset: strings.Index(source, " = 1"), want: domain.Position{Line: 1, Col: 8}},
		{name: "should move to next line", offset: strings.Index(source, "test"), want: domain.Position{Line: 2, Col: 1}},
		{name: "should count tabs as one column", offset: strings.Index(source, "t.pass"), want: domain.Position{Line: 3, Col: 2}},
		{name: "should clamp offsets past the end", offset: len(source) + 10, want: domain.Position{Line: 5, Col: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := file.Tokens.Position(tt.offset)
			if got != tt.want {
				t.Errorf("Position(%d) = %+v, want %+v", tt.offset, got, tt.want)
			}
		})
	}
}

func TestCallArguments(t *testing.T) {
	t.Parallel()

	source := "t.is(/* lead */ a, (b));"
	file := parseJS(t, source)

	call := findFirst(file, "call_expression")
	require.NotNil(t, call)

	args := parser.CallArguments(call)
	require.Len(t, args, 2)
	if got := parser.GetNodeText(args[0], file.Source); got != "a" {
		t.Errorf("expected first argument 'a', got %q", got)
	}
	if got := parser.GetNodeText(parser.Unparen(args[1]), file.Source); got != "b" {
		t.Errorf("expected unparenthesized 'b', got %q", got)
	}
}

func findFirst(file *parser.File, nodeType string) *sitter.Node {
	var found *sitter.Node
	parser.WalkTree(file.Root(), func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Type() == nodeType {
			found = n
			return false
		}
		return true
	})
	return found
}

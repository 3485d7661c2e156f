package extraction

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/specvital/avalint/pkg/domain"
)

func TestMatchPatternExcludingComments(t *testing.T) {
	t.Parallel()

	pattern := regexp.MustCompile(`failFast\s*:\s*true`)

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{
			name:    "pattern found without comments",
			content: `{ test: { failFast: true } }`,
			want:    true,
		},
		{
			name:    "pattern in single-line comment",
			content: `{ test: { // failFast: true } }`,
			want:    false,
		},
		{
			name:    "pattern in multi-line comment",
			content: `{ test: { /* failFast: true */ } }`,
			want:    false,
		},
		{
			name:    "regression: glob pattern with /* in string",
			content: `{ test: { include: ["**/*.ts"], failFast: true } }`,
			want:    true,
		},
		{
			name:    "regression: glob pattern with */ in string",
			content: `{ test: { exclude: ["view/**/*"], failFast: true } }`,
			want:    true,
		},
		{
			name: "regression: multiple glob patterns",
			content: `{
				test: {
					include: ["extension/**/*.ts", "src/**/*.ts"],
					exclude: ["**/node_modules/**", "**/dist/**", "view/**/*"],
					failFast: true,
				}
			}`,
			want: true,
		},
		{
			name:    "pattern after single-line comment",
			content: "{ test: { // comment\nfailFast: true } }",
			want:    true,
		},
		{
			name:    "pattern after multi-line comment",
			content: `{ test: { /* comment */ failFast: true } }`,
			want:    true,
		},
		{
			name:    "empty content",
			content: ``,
			want:    false,
		},
		{
			name:    "no pattern match",
			content: `{ test: { environment: 'node' } }`,
			want:    false,
		},
		// Fast path tests (no comment markers)
		{
			name:    "fast path: no comment markers",
			content: `{ test: { failFast: true } }`,
			want:    true,
		},
		{
			name:    "fast path: no comment markers, no match",
			content: `{ test: { failFast: false } }`,
			want:    false,
		},
		// Fallback path tests (malformed content)
		{
			name:    "fallback: malformed JS with pattern",
			content: `{ test: { failFast: true } // unclosed`,
			want:    true,
		},
		{
			name:    "fallback: malformed JS pattern in comment",
			content: `{ test: { // failFast: true`,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := MatchPatternExcludingComments(context.Background(), []byte(tt.content), pattern)
			if got != tt.want {
				t.Errorf("MatchPatternExcludingComments() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModuleSpecifiers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lang    domain.Language
		content string
		want    []string
	}{
		{
			name:    "should find default import",
			lang:    domain.LanguageJavaScript,
			content: "import test from 'ava';",
			want:    []string{"ava"},
		},
		{
			name:    "should find require call",
			lang:    domain.LanguageJavaScript,
			content: "const test = require('ava');",
			want:    []string{"ava"},
		},
		{
			name:    "should keep source order across styles",
			lang:    domain.LanguageTypeScript,
			content: "const sinon = require(\"sinon\");\nimport test from 'ava';\nimport {x} from './x';",
			want:    []string{"sinon", "ava", "./x"},
		},
		{
			name:    "should deduplicate modules",
			lang:    domain.LanguageJavaScript,
			content: "import test from 'ava';\nconst t2 = require('ava');",
			want:    []string{"ava"},
		},
		{
			name:    "should ignore require with non-literal argument",
			lang:    domain.LanguageJavaScript,
			content: "const m = require(name);",
			want:    nil,
		},
		{
			name:    "should ignore calls to other functions",
			lang:    domain.LanguageJavaScript,
			content: "load('ava');",
			want:    nil,
		},
		{
			name:    "should ignore imports inside comments",
			lang:    domain.LanguageJavaScript,
			content: "// import test from 'ava';\nconst x = 1;",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ModuleSpecifiers(context.Background(), tt.lang, []byte(tt.content))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ModuleSpecifiers() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractJSImports(t *testing.T) {
	t.Parallel()

	content := []byte("import test from 'ava';\nimport './setup';\nconst path = require(\"path\");")
	got := ExtractJSImports(context.Background(), content)
	want := []string{"ava", "./setup", "path"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExtractJSImports() mismatch (-want +got):\n%s", diff)
	}
}

package lint

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/avalint/pkg/domain"
)

func fixDiag(rule string, edits ...domain.TextEdit) domain.Diagnostic {
	return domain.Diagnostic{Rule: rule, Fix: &domain.Fix{Edits: edits}}
}

func edit(start, end int, text string) domain.TextEdit {
	return domain.TextEdit{Range: domain.Range{Start: start, End: end}, NewText: text}
}

func TestApplyFixes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      string
		diags       []domain.Diagnostic
		want        string
		wantApplied int
		wantSkipped int
		wantErr     error
	}{
		{
			name:        "should apply non-overlapping fixes back to front",
			source:      "abcdef",
			diags:       []domain.Diagnostic{fixDiag("r", edit(4, 6, "XY")), fixDiag("r", edit(0, 1, "Z"))},
			want:        "ZbcdXY",
			wantApplied: 2,
		},
		{
			name:        "should skip a fix overlapping an earlier one",
			source:      "abcdef",
			diags:       []domain.Diagnostic{fixDiag("first", edit(0, 2, "X")), fixDiag("second", edit(1, 3, "Y"))},
			want:        "Xcdef",
			wantApplied: 1,
			wantSkipped: 1,
		},
		{
			name:        "should apply swaps atomically",
			source:      "f(a, b)",
			diags:       []domain.Diagnostic{fixDiag("swap", edit(2, 3, "b"), edit(5, 6, "a"))},
			want:        "f(b, a)",
			wantApplied: 1,
		},
		{
			name:        "should allow adjacent edits",
			source:      "test.only(",
			diags:       []domain.Diagnostic{fixDiag("only", edit(4, 5, ""), edit(5, 9, ""))},
			want:        "test(",
			wantApplied: 1,
		},
		{
			name:        "should skip fixes with out of range edits",
			source:      "abc",
			diags:       []domain.Diagnostic{fixDiag("bad", edit(2, 10, ""))},
			want:        "abc",
			wantSkipped: 1,
			wantErr:     ErrNoFixes,
		},
		{
			name:        "should skip fixes whose own edits overlap",
			source:      "abcdef",
			diags:       []domain.Diagnostic{fixDiag("bad", edit(0, 3, ""), edit(2, 4, ""))},
			want:        "abcdef",
			wantSkipped: 1,
			wantErr:     ErrNoFixes,
		},
		{
			name:    "should report no fixes for plain diagnostics",
			source:  "abc",
			diags:   []domain.Diagnostic{{Rule: "plain"}},
			want:    "abc",
			wantErr: ErrNoFixes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Given
			source := []byte(tt.source)

			// When
			result, err := ApplyFixes(source, tt.diags)

			// Then
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, string(result.Output))
			assert.Equal(t, tt.wantApplied, result.Applied)
			assert.Len(t, result.Skipped, tt.wantSkipped)
			assert.Equal(t, tt.source, string(source), "input must not be modified")
		})
	}
}

func TestLinter_FixFile(t *testing.T) {
	t.Parallel()

	t.Run("should fix every occurrence and re-lint clean", func(t *testing.T) {
		t.Parallel()

		// Given
		l := New(ConfiguredRule{Rule: onlyRule, Severity: domain.SeverityError})
		source := header + "test.only('a', t => {});\ntest.serial\n\t.only('b', t => {});\n"

		// When
		result, report, err := l.FixFile(context.Background(), "test.js", []byte(source))

		// Then
		require.NoError(t, err)
		assert.Equal(t, header+"test('a', t => {});\ntest.serial\n\t('b', t => {});\n", string(result.Output))
		assert.Equal(t, 2, result.Applied)
		assert.Equal(t, 1, result.Passes)
		assert.Empty(t, result.Diagnostics)
		assert.True(t, report.Fixed)
		assert.Equal(t, result.Output, report.Output)
	})

	t.Run("should leave clean files untouched", func(t *testing.T) {
		t.Parallel()

		l := New(ConfiguredRule{Rule: onlyRule, Severity: domain.SeverityError})
		source := []byte(header + "test('a', t => {});\n")

		result, report, err := l.FixFile(context.Background(), "test.js", source)

		require.NoError(t, err)
		assert.False(t, result.Changed())
		assert.False(t, report.Fixed)
		assert.Nil(t, report.Output)
		assert.True(t, bytes.Equal(source, result.Output))
	})

	t.Run("should stop on cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		l := New(ConfiguredRule{Rule: onlyRule, Severity: domain.SeverityError})

		_, _, err := l.FixFile(ctx, "test.js", []byte(header))

		require.ErrorIs(t, err, context.Canceled)
	})
}

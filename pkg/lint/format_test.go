package lint

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/avalint/pkg/domain"
)

func sampleReport() domain.Report {
	return domain.Report{
		RootPath: ".",
		Files: []domain.FileReport{
			{
				Path:       "a.js",
				IsTestFile: true,
				Diagnostics: []domain.Diagnostic{
					{
						Rule:     "no-only-test",
						Message:  "`test.only()` should not be used.",
						Severity: domain.SeverityError,
						Location: domain.Location{File: "a.js", StartLine: 2, EndLine: 2, StartCol: 6, EndCol: 10},
						Fix:      &domain.Fix{Edits: []domain.TextEdit{{Range: domain.Range{Start: 33, End: 34}}}},
					},
					{
						Rule:     "test-title",
						Message:  "Test should have a title.",
						Severity: domain.SeverityWarning,
						Location: domain.Location{File: "a.js", StartLine: 3, EndLine: 3, StartCol: 1, EndCol: 20},
					},
				},
			},
		},
	}
}

func TestPrinter_FormatText(t *testing.T) {
	t.Parallel()

	t.Run("should print diagnostics and a summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewPrinter(false).FormatText(&buf, sampleReport())

		want := "a.js:2:6: error `test.only()` should not be used. (no-only-test)\n" +
			"a.js:3:1: warning Test should have a title. (test-title)\n" +
			"2 problems (1 error, 1 warning), 1 fixable with --fix\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("should print nothing for a clean report", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		NewPrinter(false).FormatText(&buf, domain.Report{Files: []domain.FileReport{{Path: "a.js"}}})

		assert.Empty(t, buf.String())
	})
}

func TestFormatText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FormatText(&buf, sampleReport().Diagnostics())

	assert.Equal(t, "a.js:2:6: `test.only()` should not be used. (no-only-test)\na.js:3:1: Test should have a title. (test-title)\n", buf.String())
}

func TestFormatJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatJSON(&buf, sampleReport()))

	var decoded struct {
		Files []struct {
			Path        string `json:"path"`
			Diagnostics []struct {
				Rule     string `json:"rule"`
				Severity string `json:"severity"`
				Fix      *struct {
					Edits []map[string]any `json:"edits"`
				} `json:"fix"`
			} `json:"diagnostics"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Files, 1)
	diags := decoded.Files[0].Diagnostics
	require.Len(t, diags, 2)
	assert.Equal(t, "error", diags[0].Severity)
	assert.NotNil(t, diags[0].Fix)
	assert.Equal(t, "warning", diags[1].Severity)
	assert.Nil(t, diags[1].Fix)
}

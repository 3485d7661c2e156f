package detection

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/parser/detection/extraction"
)

// DefaultFilePatterns are the file globs AVA runs when no configuration overrides them.
var DefaultFilePatterns = []string{
	"test.{js,cjs,mjs,ts}",
	"{src,source}/test.{js,cjs,mjs,ts}",
	"**/test-*.{js,cjs,mjs,jsx,ts,tsx,mts,cts}",
	"**/*.{spec,test}.{js,cjs,mjs,jsx,ts,tsx,mts,cts}",
	"**/test/**/*.{js,cjs,mjs,jsx,ts,tsx,mts,cts}",
	"**/tests/**/*.{js,cjs,mjs,jsx,ts,tsx,mts,cts}",
	"**/__tests__/**/*.{js,cjs,mjs,jsx,ts,tsx,mts,cts}",
}

// DefaultIgnorePatterns are helper and fixture locations AVA never treats as tests.
var DefaultIgnorePatterns = []string{
	"**/_[!_]*",
	"**/_[!_]*/**",
	"**/fixtures/**",
	"**/helpers/**",
}

var avaModulePattern = regexp.MustCompile(`(?:from|require\s*\()\s*['"]ava['"]`)

// Detector performs staged AVA test-file detection.
// Stages, highest confidence first:
// 1. Module specifiers (import or require of "ava")
// 2. Content pattern outside comments
// 3. Filename against AVA's default globs
type Detector struct {
	filePatterns   []string
	ignorePatterns []string
}

// NewDetector creates a detector. Empty pattern lists use the AVA defaults.
func NewDetector(filePatterns, ignorePatterns []string) *Detector {
	if len(filePatterns) == 0 {
		filePatterns = DefaultFilePatterns
	}
	if len(ignorePatterns) == 0 {
		ignorePatterns = DefaultIgnorePatterns
	}
	return &Detector{
		filePatterns:   filePatterns,
		ignorePatterns: ignorePatterns,
	}
}

// Detect classifies a file from its relative path and content.
func (d *Detector) Detect(ctx context.Context, relPath string, content []byte) Result {
	if !domain.IsSupportedFile(relPath) {
		return Unknown()
	}

	lang := domain.DetectLanguage(relPath)
	for _, module := range extraction.ModuleSpecifiers(ctx, lang, content) {
		if module == ModuleName {
			return FromImport()
		}
	}

	if extraction.MatchPatternExcludingComments(ctx, content, avaModulePattern) {
		return FromContent()
	}

	if d.MatchesFilename(relPath) {
		return FromFilename()
	}

	return Unknown()
}

// MatchesFilename reports whether relPath matches a file glob and no ignore glob.
func (d *Detector) MatchesFilename(relPath string) bool {
	slashed := filepath.ToSlash(relPath)
	if matchesAny(d.ignorePatterns, slashed) {
		return false
	}
	return matchesAny(d.filePatterns, slashed)
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

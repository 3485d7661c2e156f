// Package scanner discovers AVA test files below a source root and lints them in parallel.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/parser/detection"
	"github.com/specvital/avalint/pkg/source"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default maximum file size for scanning (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"dist",
	".next",
	"coverage",
	".cache",
	".nyc_output",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scan phases reported in ScanError.
const (
	PhaseDiscovery = "discovery"
	PhaseRead      = "read"
	PhaseParse     = "parse"
	PhaseLint      = "lint"
	PhaseFix       = "fix"
)

// Scanner lints AVA test files found in a source.
type Scanner struct {
	detector *detection.Detector
	options  *ScanOptions
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Report contains the lint results of every linted file.
	Report *domain.Report

	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase is one of the Phase constants.
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error {
	return e.Err
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the number of candidate files discovered.
	FilesScanned int

	// FilesLinted is the number of files linted successfully.
	FilesLinted int

	// FilesFailed is the number of files that could not be read, parsed or linted.
	FilesFailed int

	// FilesSkipped is the number of candidates not detected as AVA test files.
	FilesSkipped int

	// FilesFixed is the number of files rewritten with fixes.
	FilesFixed int

	// DetectionDist counts files by detection source.
	// Keys: "import", "content", "filename", "pattern", "explicit", "unknown"
	DetectionDist map[string]int

	// Duration is the total scan duration.
	Duration time.Duration
}

// NewScanner creates a new scanner with the given options.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{
		detector: detection.NewDetector(nil, nil),
		options:  options,
	}
}

// Scan performs the complete scanning process:
//  1. Discover candidate files
//  2. Detect AVA test files
//  3. Lint (and optionally fix) files in parallel
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())

	files, errs := s.discoverFiles(ctx, src)
	for _, err := range errs {
		result.Errors = append(result.Errors, ScanError{
			Err:   err,
			Phase: PhaseDiscovery,
		})
	}
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		s.lintFilesParallel(ctx, src, files, false, result)
	}

	return s.finish(ctx, result, startTime)
}

// ScanFiles lints specific files, bypassing discovery and detection.
// Paths are relative to the source root.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) ScanFiles(ctx context.Context, src source.Source, files []string) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())
	result.Stats.FilesScanned = len(files)

	if len(files) > 0 {
		s.lintFilesParallel(ctx, src, files, true, result)
	}

	return s.finish(ctx, result, startTime)
}

func newScanResult(root string) *ScanResult {
	return &ScanResult{
		Report: &domain.Report{
			RootPath: root,
			Files:    []domain.FileReport{},
		},
		Errors: []ScanError{},
		Stats: ScanStats{
			DetectionDist: make(map[string]int),
		},
	}
}

func (s *Scanner) finish(ctx context.Context, result *ScanResult, startTime time.Time) (*ScanResult, error) {
	result.Stats.FilesLinted = len(result.Report.Files)
	result.Stats.FilesSkipped = result.Stats.FilesScanned - result.Stats.FilesLinted - result.Stats.FilesFailed
	result.Stats.Duration = time.Since(startTime)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverFiles walks the source root to find lintable files.
// Returns relative, slash-separated paths for consistent Source.Open() usage.
func (s *Scanner) discoverFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet, excludeGlobs := splitExcludes(append(append([]string{}, DefaultSkipPatterns...), s.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != rootPath && (skipSet[d.Name()] || matchesAnyPattern(relPath, excludeGlobs)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !domain.IsSupportedFile(path) || matchesAnyPattern(relPath, excludeGlobs) {
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(relPath, s.options.Patterns) {
			return nil
		}

		if s.options.MaxFileSize > 0 {
			info, err := d.Info()
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to get file info for %s: %w", path, err))
				return nil
			}
			if info.Size() > s.options.MaxFileSize {
				return nil
			}
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

func (s *Scanner) lintFilesParallel(ctx context.Context, src source.Source, files []string, explicit bool, result *ScanResult) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var mu sync.Mutex

	for _, file := range files {
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			report, scanErr, detected := s.lintFile(gCtx, src, file, explicit)

			mu.Lock()
			defer mu.Unlock()

			result.Stats.DetectionDist[detected]++
			if scanErr != nil {
				result.Errors = append(result.Errors, *scanErr)
				result.Stats.FilesFailed++
				return nil
			}
			if report != nil {
				result.Report.Files = append(result.Report.Files, *report)
				if report.Fixed {
					result.Stats.FilesFixed++
				}
			}
			return nil
		})
	}

	_ = g.Wait()

	// Goroutines complete in variable order.
	sort.Slice(result.Report.Files, func(i, j int) bool {
		return result.Report.Files[i].Path < result.Report.Files[j].Path
	})
	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})
}

func (s *Scanner) lintFile(ctx context.Context, src source.Source, path string, explicit bool) (*domain.FileReport, *ScanError, string) {
	log := s.options.Logger.WithField("file", path)

	if err := ctx.Err(); err != nil {
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseRead}, string(detection.SourceUnknown)
	}

	content, err := readFileFromSource(ctx, src, path)
	if err != nil {
		log.WithError(err).Warn("read failed")
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseRead}, string(detection.SourceUnknown)
	}

	detected := s.classify(ctx, path, content, explicit)
	if detected == string(detection.SourceUnknown) {
		log.Debug("not an AVA test file")
		return nil, nil, detected
	}

	if !s.options.Fix {
		report, err := s.options.Linter.LintFile(ctx, path, content)
		if err != nil {
			log.WithError(err).Warn("lint failed")
			return nil, &ScanError{Err: err, Path: path, Phase: failurePhase(err)}, detected
		}
		return report, nil, detected
	}

	_, report, err := s.options.Linter.FixFile(ctx, path, content)
	if err != nil {
		log.WithError(err).Warn("fix failed")
		return nil, &ScanError{Err: err, Path: path, Phase: failurePhase(err)}, detected
	}
	if report.Fixed {
		if err := writeFileToSource(ctx, src, path, report.Output); err != nil {
			log.WithError(err).Warn("write failed")
			return nil, &ScanError{Err: err, Path: path, Phase: PhaseFix}, detected
		}
		log.WithFields(logrus.Fields{"remaining": len(report.Diagnostics)}).Debug("fixed file")
	}
	return report, nil, detected
}

// classify returns the detection source key for the file, or "unknown" to skip it.
func (s *Scanner) classify(ctx context.Context, path string, content []byte, explicit bool) string {
	if explicit {
		return "explicit"
	}
	if len(s.options.Patterns) > 0 {
		return "pattern"
	}
	return string(s.detector.Detect(ctx, path, content).Source)
}

func failurePhase(err error) string {
	if errors.Is(err, lint.ErrParse) {
		return PhaseParse
	}
	return PhaseLint
}

// readFileFromSource reads a file from source using relative path.
// The relPath must be relative to src.Root().
func readFileFromSource(ctx context.Context, src source.Source, relPath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}

	return content, nil
}

func writeFileToSource(ctx context.Context, src source.Source, relPath string, content []byte) error {
	w, ok := src.(source.Writer)
	if !ok {
		return fmt.Errorf("source %T is read-only", src)
	}
	return w.WriteFile(ctx, relPath, content)
}

// splitExcludes separates plain directory names from glob patterns.
func splitExcludes(patterns []string) (map[string]bool, []string) {
	names := make(map[string]bool, len(patterns))
	var globs []string
	for _, p := range patterns {
		if strings.ContainsAny(p, "*?[{/") {
			globs = append(globs, strings.TrimPrefix(p, "./"))
			continue
		}
		names[p] = true
	}
	return names, globs
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan lints the AVA test files of src with a scanner built from opts.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	scanner := NewScanner(opts...)
	return scanner.Scan(ctx, src)
}

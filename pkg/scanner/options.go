package scanner

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/rules"
)

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// ExcludePatterns are skipped during file discovery. Plain names match
	// directory names anywhere; patterns with glob syntax or slashes are
	// matched against root-relative paths with doublestar.
	// These are combined with DefaultSkipPatterns.
	ExcludePatterns []string

	// Fix applies fixes and writes changed files back to the source.
	Fix bool

	// Linter runs the rules. If nil, the recommended rule set is used.
	Linter *lint.Linter

	// Logger receives per-file debug and warning output.
	// If nil, uses logrus.StandardLogger().
	Logger *logrus.Logger

	// MaxFileSize is the maximum file size in bytes to process.
	// Files larger than this are skipped.
	MaxFileSize int64

	// Patterns specifies glob patterns selecting files to lint.
	// Empty means files are selected by AVA test-file detection.
	Patterns []string

	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent file linters.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// ScanOption is a functional option for configuring Scanner.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent file linters.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds patterns to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the maximum file size to process.
// Negative values are ignored.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithPatterns sets glob patterns selecting files to lint.
func WithPatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithLinter sets the linter used for every file.
func WithLinter(l *lint.Linter) ScanOption {
	return func(o *ScanOptions) {
		o.Linter = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Logger) ScanOption {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

// WithFix enables writing fixes back to the source.
func WithFix(enabled bool) ScanOption {
	return func(o *ScanOptions) {
		o.Fix = enabled
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Linter == nil {
		opts.Linter = lint.New(rules.Recommended()...)
	}
	if opts.Linter.Logger == nil {
		opts.Linter.Logger = opts.Logger
	}
}

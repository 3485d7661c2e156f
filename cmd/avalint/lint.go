package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/specvital/avalint/pkg/config"
	"github.com/specvital/avalint/pkg/domain"
	"github.com/specvital/avalint/pkg/lint"
	"github.com/specvital/avalint/pkg/rules"
	"github.com/specvital/avalint/pkg/scanner"
	"github.com/specvital/avalint/pkg/source"
)

type lintOptions struct {
	*rootOptions

	json     bool
	fix      bool
	rules    string
	exclude  []string
	include  []string
	workers  int
	timeout  time.Duration
	colorize string
}

func newLintCmd(root *rootOptions) *cobra.Command {
	opts := &lintOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "lint [flags] [paths...]",
		Short: "Lint AVA test files",
		Long: `Lint AVA test files below each path. Directories are walked and files that
import or require AVA, or match AVA's default test globs, are checked.
Files named explicitly are always checked. With no paths the working
directory is linted.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags or config, unreadable files)

Examples:
  avalint lint                                 # Lint the working directory
  avalint lint test/                           # Lint a directory
  avalint lint --fix test/foo.js               # Fix a single file
  avalint lint --rules=no-only-test,test-title # Run only specific rules
  avalint lint --exclude='legacy/**' --json    # Skip a directory, JSON output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "Output the report as JSON.")
	flags.BoolVar(&opts.fix, "fix", false, "Apply fixes and write changed files.")
	flags.StringVar(&opts.rules, "rules", "", "Comma-separated list of rules to run (default: configured rules).")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "Name or glob of paths to skip (may be repeated).")
	flags.StringArrayVar(&opts.include, "include", nil, "Glob of files to lint instead of AVA detection (may be repeated).")
	flags.IntVar(&opts.workers, "workers", scanner.DefaultWorkers, "Number of files linted concurrently (0 uses all CPUs).")
	flags.DurationVar(&opts.timeout, "timeout", scanner.DefaultTimeout, "Maximum duration of the whole run.")
	flags.StringVar(&opts.colorize, "color", "auto", `Control colored output: "auto", "always", or "never".`)

	return cmd
}

func runLint(cmd *cobra.Command, opts *lintOptions, args []string) error {
	colored, err := colorEnabled(opts.colorize)
	if err != nil {
		return usageError(err)
	}

	cfg, err := config.Load(opts.configFile, ".")
	if err != nil {
		return usageError(err)
	}
	if cfg.File != "" {
		opts.logger.WithField("file", cfg.File).Debug("using config file")
	}

	set, err := cfg.Resolve(rules.All(), splitList(opts.rules)...)
	if err != nil {
		return usageError(err)
	}
	linter := lint.New(set...)
	linter.Logger = opts.logger

	scanOpts := []scanner.ScanOption{
		scanner.WithLinter(linter),
		scanner.WithLogger(opts.logger),
		scanner.WithFix(opts.fix),
		scanner.WithTimeout(opts.timeout),
		scanner.WithExcludePatterns(append(cfg.Exclude, opts.exclude...)),
		scanner.WithPatterns(cfg.Include),
		scanner.WithWorkers(cfg.Workers),
	}
	if cmd.Flags().Changed("include") {
		scanOpts = append(scanOpts, scanner.WithPatterns(opts.include))
	}
	if cmd.Flags().Changed("workers") {
		scanOpts = append(scanOpts, scanner.WithWorkers(opts.workers))
	}
	s := scanner.NewScanner(scanOpts...)

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	report := domain.Report{RootPath: ".", Files: []domain.FileReport{}}
	for _, path := range paths {
		files, err := lintPath(cmd.Context(), s, path)
		if err != nil {
			return usageError(err)
		}
		report.Files = append(report.Files, files...)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		if err := lint.FormatJSON(out, report); err != nil {
			return usageError(err)
		}
	} else {
		lint.NewPrinter(colored).FormatText(out, report)
	}

	if report.CountDiagnostics() > 0 {
		return &exitError{code: exitProblems}
	}
	return nil
}

// lintPath scans a directory or a single file and rebases report paths onto path.
func lintPath(ctx context.Context, s *scanner.Scanner, path string) ([]domain.FileReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	root, files := path, []string(nil)
	if !info.IsDir() {
		root = filepath.Dir(path)
		files = []string{filepath.Base(path)}
	}

	src, err := source.NewLocalSource(root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = src.Close() }()

	var result *scanner.ScanResult
	if files == nil {
		result, err = s.Scan(ctx, src)
	} else {
		result, err = s.ScanFiles(ctx, src, files)
	}
	if err != nil {
		return nil, fmt.Errorf("lint %s: %w", path, err)
	}

	var errs *multierror.Error
	for _, scanErr := range result.Errors {
		errs = multierror.Append(errs, scanErr)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	reports := result.Report.Files
	for i := range reports {
		rebase(&reports[i], root)
	}
	return reports, nil
}

func rebase(report *domain.FileReport, root string) {
	path := filepath.Join(root, filepath.FromSlash(report.Path))
	report.Path = path
	for i := range report.Diagnostics {
		report.Diagnostics[i].Location.File = path
	}
}

func colorEnabled(mode string) (bool, error) {
	switch mode {
	case "auto":
		return !color.NoColor, nil
	case "always":
		return true, nil
	case "never":
		return false, nil
	default:
		return false, fmt.Errorf("--color: expected auto, always or never, got %q", mode)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	logger     *logrus.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{logger: logrus.New()}
	opts.logger.SetOutput(stderr)

	cmd := &cobra.Command{
		Use:   "avalint",
		Short: "Lint AVA test files",
		Long: `avalint statically checks JavaScript and TypeScript test files written
for the AVA test runner. It reports likely mistakes such as focused tests,
nested tests, duplicate titles and misused assertions, and can fix some
of them automatically.

Configuration is read from .avalint.yaml in the working directory, or from
the file given with --config. AVALINT_* environment variables override
top-level keys, e.g. AVALINT_WORKERS=4.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return usageError(fmt.Errorf("--log-level: %w", err))
			}
			opts.logger.SetLevel(level)
			return nil
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "",
		"config file (default is ./.avalint.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warning",
		"log level: debug, info, warning or error")

	cmd.AddCommand(newLintCmd(opts), newRulesCmd())
	return cmd
}

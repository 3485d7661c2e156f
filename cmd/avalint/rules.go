package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/specvital/avalint/pkg/rules"
)

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range rules.All() {
				var flags []string
				if r.Recommended {
					flags = append(flags, "recommended")
				}
				if r.Fixable {
					flags = append(flags, "fixable")
				}
				summary, _, _ := strings.Cut(r.Doc, "\n")
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", //nolint:errcheck // best-effort output to writer
					r.Name, r.Severity, strings.Join(flags, ","), summary)
			}
			return w.Flush()
		},
	}
}

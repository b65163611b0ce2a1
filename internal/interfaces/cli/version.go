package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output == outputJSON {
				return printJSON(cmd, map[string]string{
					"version":    Version,
					"commit":     GitCommit,
					"build_date": BuildDate,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "nexus %s (commit: %s, built: %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}

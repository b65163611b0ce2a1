package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/ethics"
	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
)

func newSafeguardCommand(opts *rootOptions) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "safeguard",
		Short: "Run the ethical safeguard engine against a mission profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd, profilePath)
			if err != nil {
				return err
			}

			result := ethics.Evaluate(profile, scoring.CalculateSPI(profile))
			if opts.output == outputJSON {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			verdict := "PASSED"
			if !result.Passed() {
				verdict = "BLOCKED"
			}
			fmt.Fprintf(out, "Safeguard check: %s (score %d)\n", verdict, result.Score)
			for _, f := range result.Flags {
				fmt.Fprintf(out, "  [%s] %s: %s\n", f.Severity, f.Rule, f.Reason)
				if f.Mitigation != "" {
					fmt.Fprintf(out, "      mitigation: %s\n", f.Mitigation)
				}
			}
			if len(result.Flags) == 0 {
				fmt.Fprintln(out, "  no flags raised")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Mission profile JSON file, or - for stdin (required)")
	cmd.MarkFlagRequired("profile")
	return cmd
}

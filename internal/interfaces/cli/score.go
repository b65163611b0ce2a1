package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexus-advisory/nexus-intelligence/internal/domain/scoring"
)

func newScoreCommand(opts *rootOptions) *cobra.Command {
	var profilePath string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the Strategic Probability Index for a mission profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd, profilePath)
			if err != nil {
				return err
			}

			result := scoring.CalculateSPI(profile)
			if opts.output == outputJSON {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SPI: %d\n", result.SPI)
			for _, f := range result.Breakdown {
				fmt.Fprintf(out, "  %-22s %3d\n", f.Label, f.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Mission profile JSON file, or - for stdin (required)")
	cmd.MarkFlagRequired("profile")
	return cmd
}

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nexus-advisory/nexus-intelligence/internal/application/intelligence"
	"github.com/nexus-advisory/nexus-intelligence/internal/infrastructure/monitoring/logging"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
	"github.com/nexus-advisory/nexus-intelligence/pkg/nsil"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate or inspect NSIL opportunity reports",
	}
	cmd.AddCommand(
		newReportGenerateCommand(opts),
		newReportParseCommand(opts),
	)
	return cmd
}

func newReportGenerateCommand(opts *rootOptions) *cobra.Command {
	var (
		profilePath string
		mode        string
		caseID      string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full pipeline and emit an NSIL report",
		Long:  "Runs scoring, the safeguard engine, region synthesis, and opportunity\norchestration locally, then writes the NSIL document.",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(cmd, profilePath)
			if err != nil {
				return err
			}

			// Local run: no cache, archive, or event bus.
			svc := intelligence.NewService(nil, nil, nil, logging.NewNop())
			report, err := svc.GenerateReport(cmd.Context(), &intelligence.GenerateInput{
				Profile: profile,
				Mode:    mode,
				CaseID:  caseID,
			})
			if err != nil {
				return err
			}

			if outPath != "" {
				if err := os.WriteFile(outPath, []byte(report.NSIL), 0o644); err != nil {
					return errors.Wrap(err, errors.ErrCodeInternal, "failed to write report file")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report %s written to %s\n", report.CaseID, outPath)
				return nil
			}

			if opts.output == outputJSON {
				return printJSON(cmd, report)
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.NSIL)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profilePath, "profile", "p", "", "Mission profile JSON file, or - for stdin (required)")
	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Analysis mode label (default Discovery)")
	cmd.Flags().StringVar(&caseID, "case-id", "", "Pin the report case id")
	cmd.Flags().StringVar(&outPath, "out", "", "Write the NSIL document to a file")
	cmd.MarkFlagRequired("profile")
	return cmd
}

func newReportParseCommand(opts *rootOptions) *cobra.Command {
	var docPath string

	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse an NSIL document into its render model",
		Long:  "Reads an NSIL document and prints the lenient-parse render model.\nMalformed or partial documents are accepted; missing sections are\nsimply absent from the model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if docPath == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(docPath)
			}
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read document")
			}

			model := nsil.Parse(string(data))
			if opts.output == outputJSON {
				return printJSON(cmd, model)
			}

			out := cmd.OutOrStdout()
			if model.Empty() {
				fmt.Fprintln(out, "No analysis data in document")
				return nil
			}
			if model.Score != nil {
				fmt.Fprintf(out, "Overall score: %d\n", *model.Score)
			}
			if model.MatchValue != nil {
				fmt.Fprintf(out, "Match: %d (%s)\n", *model.MatchValue, model.MatchConfidence)
			}
			fmt.Fprintf(out, "Scenarios: %d, roadmap phases: %d\n", len(model.Scenarios), len(model.Phases))
			return nil
		},
	}

	cmd.Flags().StringVarP(&docPath, "file", "f", "", "NSIL document file, or - for stdin (required)")
	cmd.MarkFlagRequired("file")
	return cmd
}

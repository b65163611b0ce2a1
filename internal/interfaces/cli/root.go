// Package cli implements the nexus command line tool. Commands run
// the scoring pipeline locally against a mission profile file, without
// requiring the API server.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	domainMission "github.com/nexus-advisory/nexus-intelligence/internal/domain/mission"
	"github.com/nexus-advisory/nexus-intelligence/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

const (
	outputJSON = "json"
	outputText = "text"
)

// rootOptions holds global CLI flags shared by all subcommands.
type rootOptions struct {
	output string
}

// NewRootCommand creates the root cobra command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "nexus",
		Short:   "Nexus Intelligence CLI — opportunity scoring and report assembly",
		Long:    "Nexus Intelligence scores mission profiles, runs the ethical safeguard\nengine, and assembles NSIL opportunity reports for regional development\nadvisory work.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputJSON && opts.output != outputText {
				return errors.InvalidParam("output must be json or text")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "Output format: json|text")

	cmd.AddCommand(
		newScoreCommand(opts),
		newSafeguardCommand(opts),
		newReportCommand(opts),
		newVersionCommand(opts),
	)
	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// loadProfile reads a mission profile JSON document from a file, or
// from stdin when path is "-".
func loadProfile(cmd *cobra.Command, path string) (domainMission.Profile, error) {
	var profile domainMission.Profile

	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return profile, errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read profile")
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, errors.Wrap(err, errors.ErrCodeSerialization, "failed to parse profile")
	}
	return profile, nil
}

// printJSON writes v as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

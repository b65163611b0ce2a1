// CLI entry point for nexus-intelligence.
package main

import (
	"os"

	"github.com/nexus-advisory/nexus-intelligence/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate

	os.Exit(cli.Execute())
}

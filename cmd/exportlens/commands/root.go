package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "exportlens",
	Short: "Trade opportunity signal pipeline",
	Long: `ExportLens batch pipeline

Turns bilateral trade-flow snapshots into ranked export opportunity
signals for the reference country: fact aggregation, derived metrics,
peer grouping under three methodologies, peer medians, signal
generation and ranking, persisted as one atomic run per year.

Usage:
  go run ./cmd/exportlens [command]

Examples:
  go run ./cmd/exportlens run --year 2024
  go run ./cmd/exportlens status --year 2024
  go run ./cmd/exportlens validate
  go run ./cmd/exportlens serve`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

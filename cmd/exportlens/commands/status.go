package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last committed run for a year",
	Long: `Prints the committed run summary for a reporting year.

Example:
  go run ./cmd/exportlens status --year 2024`,
	RunE: runStatus,
}

var statusYear int

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusYear, "year", 0, "reporting year (required)")
	statusCmd.MarkFlagRequired("year")
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.store.LastRun(ctx, statusYear)
	if err != nil {
		return err
	}
	if summary == nil {
		fmt.Printf("No committed run for %d\n", statusYear)
		return nil
	}

	fmt.Printf("Run for %d\n", summary.Year)
	fmt.Printf("  fingerprint: %s\n", summary.Fingerprint)
	fmt.Printf("  seed:        %d\n", summary.Seed)
	fmt.Printf("  started:     %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  finished:    %s\n", summary.FinishedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  facts=%d metrics=%d assignments=%d medians=%d signals=%d ranked=%d\n",
		summary.FactRows, summary.MetricsRows, summary.AssignmentRows,
		summary.MedianRows, summary.SignalRows, summary.RankedRows)
	fmt.Printf("  excluded %d of %d records (%.2f%%)\n",
		summary.RecordsExcluded, summary.RecordsRead, summary.ExcludedShare*100)

	return nil
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/exportlens/backend/internal/ops"
	"github.com/exportlens/backend/internal/scheduler"
	"github.com/exportlens/backend/internal/scheduler/jobs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and ops HTTP surface",
	Long: `Starts the cron scheduler with the periodic pipeline refresh and,
unless disabled, the operational HTTP endpoints (health, run summaries,
exclusion counters).

Examples:
  go run ./cmd/exportlens serve
  go run ./cmd/exportlens serve --schedule "0 0 6 * * 1"`,
	RunE: runServe,
}

var serveSchedule string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Mondays at 06:00; upstream snapshots refresh weekly at best.
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "0 0 6 * * 1", "cron schedule of the pipeline refresh")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.New(app.log)
	refresh := jobs.NewPipelineRefreshJob(app.runner, app.cfg.SnapshotPath, serveSchedule, app.log)
	if err := sched.AddJob(refresh); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	var server *ops.Server
	if app.cfg.OpsEnabled {
		router := ops.NewRouter(app.db, app.store, app.log)
		server = ops.NewServer(app.cfg, app.log, router)
		go func() {
			if err := server.Start(); err != nil {
				app.log.WithError(err).Error("Ops server stopped")
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.log.WithError(err).Error("Ops server shutdown failed")
		}
	}

	return nil
}

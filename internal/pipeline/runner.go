// Package pipeline orchestrates one batch run: ingest, aggregate, derive,
// cluster, compare, signal, rank, persist. Every stage is pure; all state
// lives at the edges (snapshot in, store out).
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/facts"
	"github.com/exportlens/backend/internal/ingest"
	"github.com/exportlens/backend/internal/medians"
	"github.com/exportlens/backend/internal/metrics"
	"github.com/exportlens/backend/internal/peers"
	"github.com/exportlens/backend/internal/ranking"
	"github.com/exportlens/backend/internal/runconfig"
	"github.com/exportlens/backend/internal/signals"
	"github.com/exportlens/backend/pkg/logger"
)

// Options select what a single run processes.
type Options struct {
	Year     int
	Snapshot string
	// Seed overrides the configured clustering seed when non-nil.
	Seed *int64
	// Force runs even when the fingerprint matches the last committed run.
	Force bool
}

// Runner wires the stages together. Construct once, run per year.
type Runner struct {
	refCountry string
	runCfg     *runconfig.Config
	reader     *ingest.Reader
	assigners  []peers.Assigner
	store      contracts.OutputStore
	cache      contracts.FingerprintCache
	logger     *logger.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(
	refCountry string,
	runCfg *runconfig.Config,
	reader *ingest.Reader,
	assigners []peers.Assigner,
	store contracts.OutputStore,
	cache contracts.FingerprintCache,
	log *logger.Logger,
) *Runner {
	return &Runner{
		refCountry: refCountry,
		runCfg:     runCfg,
		reader:     reader,
		assigners:  assigners,
		store:      store,
		cache:      cache,
		logger:     log,
	}
}

// Run executes the full pipeline for one year and persists the output in a
// single atomic write. When the input fingerprint matches the last committed
// run and Force is off, the run is skipped and the stored summary returned.
func (r *Runner) Run(ctx context.Context, opts Options) (*contracts.RunSummary, error) {
	started := time.Now().UTC()

	runCfg := r.runCfg
	if opts.Seed != nil {
		clone := *r.runCfg
		clone.Clustering.Seed = *opts.Seed
		runCfg = &clone
	}
	seed := runCfg.Clustering.Seed

	// The flow window covers the prior year for YoY metrics and the full
	// clustering window, whichever reaches further back.
	window := runCfg.Clustering.WindowYears
	if window < 2 {
		window = 2
	}
	snapshot, err := r.reader.Read(ctx, opts.Snapshot, opts.Year-window+1, opts.Year)
	if err != nil {
		return nil, err
	}

	if share := snapshot.Stats.ExcludedShare(); share > runCfg.Thresholds.MaxExcludedShare {
		return nil, fmt.Errorf("excluded %.1f%% of input records (limit %.1f%%): %w",
			share*100, runCfg.Thresholds.MaxExcludedShare*100, contracts.ErrInvalidCountryCode)
	}

	fingerprint, err := Fingerprint(snapshot.Flows, runCfg, seed)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		if last, ok, err := r.cache.LastFingerprint(ctx, opts.Year); err == nil && ok && last == fingerprint {
			// The cache can outlive the database; only skip when the
			// committed run is actually there.
			stored, err := r.store.LastRun(ctx, opts.Year)
			if err == nil && stored != nil {
				r.logger.WithFields(map[string]interface{}{
					"year":        opts.Year,
					"fingerprint": fingerprint[:12],
				}).Info("Input unchanged, run skipped")
				return stored, nil
			}
		}
	}

	aggregator := facts.NewAggregator(r.refCountry, r.logger)
	current, err := aggregator.Aggregate(snapshot.Flows, opts.Year)
	if err != nil {
		return nil, err
	}
	prior, err := aggregator.Aggregate(snapshot.Flows, opts.Year-1)
	if err != nil {
		return nil, err
	}

	metricsTable := metrics.NewComputer(r.logger).Compute(current, prior)

	assignmentSet, err := peers.AssignAll(peers.Input{Year: opts.Year, Flows: snapshot.Flows}, r.assigners)
	if err != nil {
		return nil, err
	}
	if err := peers.RequireAssigned(assignmentSet, []string{r.refCountry}); err != nil {
		return nil, err
	}

	medianTable, err := medians.NewCalculator(r.refCountry, r.logger).Compute(current, snapshot.Flows, assignmentSet)
	if err != nil {
		return nil, err
	}

	candidates := signals.NewGenerator(runCfg, r.logger).Generate(metricsTable, medianTable)
	ranked := ranking.NewRanker(runCfg, r.logger).Rank(opts.Year, candidates)

	summary := contracts.RunSummary{
		Year:        opts.Year,
		Fingerprint: fingerprint,
		Seed:        seed,
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),

		FactRows:       current.Count(),
		MetricsRows:    metricsTable.Count(),
		AssignmentRows: assignmentSet.Count(),
		MedianRows:     medianTable.Count(),
		SignalRows:     len(candidates),
		RankedRows:     len(ranked.Top) + len(ranked.Bulk),

		RecordsRead:     snapshot.Stats.RecordsRead,
		RecordsExcluded: snapshot.Stats.RecordsExcluded,
		ExcludedShare:   snapshot.Stats.ExcludedShare(),
	}

	output := &contracts.RunOutput{
		Year:        opts.Year,
		Fingerprint: fingerprint,
		Facts:       current.Rows,
		Metrics:     metricsTable.Rows,
		Assignments: assignmentSet.Assignments,
		Medians:     medianTable.Rows,
		Signals:     candidates,
		Ranked:      *ranked,
		Summary:     summary,
	}

	if err := r.store.SaveRun(ctx, output); err != nil {
		return nil, fmt.Errorf("persist run: %w", err)
	}

	// Cache failures only cost a redundant rerun later; never the run itself.
	if err := r.cache.StoreFingerprint(ctx, opts.Year, fingerprint); err != nil {
		r.logger.WithError(err).Warn("Failed to cache run fingerprint")
	}

	r.logger.WithFields(map[string]interface{}{
		"year":        opts.Year,
		"fingerprint": fingerprint[:12],
		"signals":     summary.SignalRows,
		"top":         len(ranked.Top),
		"duration":    summary.FinishedAt.Sub(summary.StartedAt).String(),
	}).Info("Pipeline run committed")

	return &summary, nil
}

// Package store persists pipeline output to Postgres.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

// OutputStore implements contracts.OutputStore on Postgres.
// SSOT: run output is written here only.
type OutputStore struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// NewOutputStore creates the store.
func NewOutputStore(pool *pgxpool.Pool, log *logger.Logger) *OutputStore {
	return &OutputStore{pool: pool, logger: log}
}

// SaveRun replaces every output table for the run's year inside a single
// transaction. A failure at any point rolls the whole year back, leaving the
// previously committed run untouched.
func (s *OutputStore) SaveRun(ctx context.Context, run *contracts.RunOutput) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{
		"trade_facts", "trade_metrics", "peer_assignments",
		"peer_medians", "opportunity_signals", "ranked_signals",
	} {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE year = $1", table), run.Year); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if err := insertFacts(ctx, tx, run.Facts); err != nil {
		return err
	}
	if err := insertMetrics(ctx, tx, run.Metrics); err != nil {
		return err
	}
	if err := insertAssignments(ctx, tx, run.Assignments); err != nil {
		return err
	}
	if err := insertMedians(ctx, tx, run.Medians); err != nil {
		return err
	}
	if err := insertSignals(ctx, tx, run.Year, run.Signals); err != nil {
		return err
	}
	if err := insertRanked(ctx, tx, run.Year, "top", run.Ranked.Top); err != nil {
		return err
	}
	if err := insertRanked(ctx, tx, run.Year, "bulk", run.Ranked.Bulk); err != nil {
		return err
	}
	if err := upsertSummary(ctx, tx, &run.Summary); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"year":        run.Year,
		"fingerprint": run.Fingerprint[:12],
		"facts":       len(run.Facts),
		"signals":     len(run.Signals),
	}).Info("Run output committed")

	return nil
}

// LastRun returns the committed run summary for a year, or nil when the year
// has never been run.
func (s *OutputStore) LastRun(ctx context.Context, year int) (*contracts.RunSummary, error) {
	query := `
		SELECT year, fingerprint, seed, started_at, finished_at,
		       fact_rows, metrics_rows, assignment_rows, median_rows,
		       signal_rows, ranked_rows,
		       records_read, records_excluded, excluded_share
		FROM pipeline_runs
		WHERE year = $1
	`

	var sum contracts.RunSummary
	err := s.pool.QueryRow(ctx, query, year).Scan(
		&sum.Year, &sum.Fingerprint, &sum.Seed, &sum.StartedAt, &sum.FinishedAt,
		&sum.FactRows, &sum.MetricsRows, &sum.AssignmentRows, &sum.MedianRows,
		&sum.SignalRows, &sum.RankedRows,
		&sum.RecordsRead, &sum.RecordsExcluded, &sum.ExcludedShare,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run summary: %w", err)
	}
	return &sum, nil
}

func insertFacts(ctx context.Context, tx pgx.Tx, rows []contracts.FactRow) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO trade_facts
				(year, product_code, partner_country, export_ref_to_partner, import_partner_total, export_ref_global)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			r.Year, r.ProductCode, r.Partner, r.ExportRefToPartner, r.ImportPartnerTotal, r.ExportRefGlobal,
		)
	}
	return sendBatch(ctx, tx, batch, "trade_facts")
}

func insertMetrics(ctx context.Context, tx pgx.Tx, rows []contracts.MetricsRow) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO trade_metrics
				(year, product_code, partner_country,
				 share_in_partner_import, yoy_export_change,
				 partner_share_in_ref_exports, yoy_partner_share_change)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.Year, r.ProductCode, r.Partner,
			r.ShareInPartnerImport, r.YoYExportChange,
			r.PartnerShareInRefExports, r.YoYPartnerShareChange,
		)
	}
	return sendBatch(ctx, tx, batch, "trade_metrics")
}

func insertAssignments(ctx context.Context, tx pgx.Tx, rows []contracts.PeerAssignment) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO peer_assignments (year, country, methodology, cluster_id, peers)
			VALUES ($1, $2, $3, $4, $5)`,
			r.Year, r.Country, string(r.Methodology), r.ClusterID, r.Peers,
		)
	}
	return sendBatch(ctx, tx, batch, "peer_assignments")
}

func insertMedians(ctx context.Context, tx pgx.Tx, rows []contracts.PeerMedianRow) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO peer_medians
				(year, product_code, partner_country, methodology, peer_median_share, peer_count, peers)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			r.Year, r.ProductCode, r.Partner, string(r.Methodology), r.PeerMedianShare, r.PeerCount, r.Peers,
		)
	}
	return sendBatch(ctx, tx, batch, "peer_medians")
}

func insertSignals(ctx context.Context, tx pgx.Tx, year int, rows []contracts.Signal) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO opportunity_signals
				(year, signal_type, product_code, partner_country, methodology,
				 intensity, value, yoy, peer_median, peers, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			year, string(r.Type), r.ProductCode, r.Partner, nullableMethodology(r.Methodology),
			r.Intensity, r.Value, r.YoY, r.PeerMedian, r.Peers, r.Explanation,
		)
	}
	return sendBatch(ctx, tx, batch, "opportunity_signals")
}

func insertRanked(ctx context.Context, tx pgx.Tx, year int, list string, rows []contracts.RankedSignal) error {
	batch := &pgx.Batch{}
	for i := range rows {
		r := &rows[i]
		batch.Queue(`
			INSERT INTO ranked_signals
				(year, list, rank, signal_type, product_code, partner_country, methodology,
				 intensity, value, yoy, peer_median, peers, explanation)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			year, list, r.Rank, string(r.Type), r.ProductCode, r.Partner, nullableMethodology(r.Methodology),
			r.Intensity, r.Value, r.YoY, r.PeerMedian, r.Peers, r.Explanation,
		)
	}
	return sendBatch(ctx, tx, batch, "ranked_signals")
}

func upsertSummary(ctx context.Context, tx pgx.Tx, sum *contracts.RunSummary) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO pipeline_runs
			(year, fingerprint, seed, started_at, finished_at,
			 fact_rows, metrics_rows, assignment_rows, median_rows, signal_rows, ranked_rows,
			 records_read, records_excluded, excluded_share)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (year) DO UPDATE SET
			fingerprint      = EXCLUDED.fingerprint,
			seed             = EXCLUDED.seed,
			started_at       = EXCLUDED.started_at,
			finished_at      = EXCLUDED.finished_at,
			fact_rows        = EXCLUDED.fact_rows,
			metrics_rows     = EXCLUDED.metrics_rows,
			assignment_rows  = EXCLUDED.assignment_rows,
			median_rows      = EXCLUDED.median_rows,
			signal_rows      = EXCLUDED.signal_rows,
			ranked_rows      = EXCLUDED.ranked_rows,
			records_read     = EXCLUDED.records_read,
			records_excluded = EXCLUDED.records_excluded,
			excluded_share   = EXCLUDED.excluded_share`,
		sum.Year, sum.Fingerprint, sum.Seed, sum.StartedAt, sum.FinishedAt,
		sum.FactRows, sum.MetricsRows, sum.AssignmentRows, sum.MedianRows, sum.SignalRows, sum.RankedRows,
		sum.RecordsRead, sum.RecordsExcluded, sum.ExcludedShare,
	)
	if err != nil {
		return fmt.Errorf("upsert run summary: %w", err)
	}
	return nil
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, table string) error {
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// nullableMethodology maps the empty methodology of YoY signals to SQL NULL.
func nullableMethodology(m contracts.Methodology) *string {
	if m == "" {
		return nil
	}
	s := string(m)
	return &s
}

// Package metrics derives the per-row ratio metrics from fact tables.
package metrics

import (
	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

// Computer derives ratio metrics for one year. It is pure over its inputs:
// the current-year fact table and, optionally, the prior-year one for the
// YoY metrics.
type Computer struct {
	logger *logger.Logger
}

// NewComputer creates a metrics computer.
func NewComputer(log *logger.Logger) *Computer {
	return &Computer{logger: log}
}

// Compute produces exactly one metrics row per current-year fact row.
// prior may be nil (first year on record); every YoY metric is then null.
func (c *Computer) Compute(current, prior *contracts.FactTable) *contracts.MetricsTable {
	rows := make([]contracts.MetricsRow, 0, current.Count())

	for i := range current.Rows {
		fact := current.Rows[i]
		row := contracts.MetricsRow{FactRow: fact}

		row.ShareInPartnerImport = safeDiv(fact.ExportRefToPartner, fact.ImportPartnerTotal)
		row.PartnerShareInRefExports = safeDiv(fact.ExportRefToPartner, fact.ExportRefGlobal)

		if prev, ok := prior.Get(fact.Key()); ok {
			row.YoYExportChange = growth(fact.ExportRefToPartner, prev.ExportRefToPartner)

			prevShare := safeDiv(prev.ExportRefToPartner, prev.ExportRefGlobal)
			if row.PartnerShareInRefExports != nil && prevShare != nil {
				row.YoYPartnerShareChange = growth(*row.PartnerShareInRefExports, *prevShare)
			}
		}

		rows = append(rows, row)
	}

	c.logger.WithFields(map[string]interface{}{
		"year": current.Year,
		"rows": len(rows),
	}).Info("Metrics computed")

	return contracts.NewMetricsTable(current.Year, rows)
}

// safeDiv returns a/b, or nil when b is zero. Undefined ratios stay
// undefined; they never collapse to zero or blow up to infinity.
func safeDiv(a, b float64) *float64 {
	if b == 0 {
		return nil
	}
	return contracts.Float64Ptr(a / b)
}

// growth returns (cur-prev)/prev, or nil when prev is zero.
func growth(cur, prev float64) *float64 {
	if prev == 0 {
		return nil
	}
	return contracts.Float64Ptr((cur - prev) / prev)
}

// Package facts builds the verified per-year fact table for the reference
// country out of raw bilateral flows.
package facts

import (
	"math"
	"sort"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

// Tolerance for the verification resum. Totals are computed in different
// iteration orders, so exact float equality is not expected.
const resumTolerance = 1e-6

// Aggregator folds raw flows into one fact row per (product, partner) and
// verifies the recomputed global totals before releasing the table.
type Aggregator struct {
	refCountry string
	logger     *logger.Logger
}

// NewAggregator creates an aggregator for the given reference country (ISO3).
func NewAggregator(refCountry string, log *logger.Logger) *Aggregator {
	return &Aggregator{refCountry: refCountry, logger: log}
}

// Aggregate builds the fact table for one year.
//
// A fact row exists for every (product, partner) the reference country
// exported to that year. ImportPartnerTotal comes from the partner's own
// import reporting summed over all origins; ExportRefGlobal is recomputed
// from the bilateral rows, never taken from the snapshot.
func (a *Aggregator) Aggregate(flows []contracts.BilateralFlow, year int) (*contracts.FactTable, error) {
	// Export value reference -> partner, keyed by (product, partner).
	exports := make(map[contracts.FactKey]float64)
	// Partner's total imports of a product from all origins, keyed by
	// (product, importer).
	importTotals := make(map[contracts.FactKey]float64)

	for i := range flows {
		f := &flows[i]
		if f.Year != year {
			continue
		}
		switch f.Direction {
		case contracts.FlowExport:
			if f.Reporter == a.refCountry {
				exports[contracts.FactKey{ProductCode: f.ProductCode, Partner: f.Partner}] += f.Value
			}
		case contracts.FlowImport:
			importTotals[contracts.FactKey{ProductCode: f.ProductCode, Partner: f.Reporter}] += f.Value
		}
	}

	globalByProduct := make(map[string]float64)
	for key, value := range exports {
		globalByProduct[key.ProductCode] += value
	}

	keys := make([]contracts.FactKey, 0, len(exports))
	for key := range exports {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ProductCode != keys[j].ProductCode {
			return keys[i].ProductCode < keys[j].ProductCode
		}
		return keys[i].Partner < keys[j].Partner
	})

	rows := make([]contracts.FactRow, 0, len(keys))
	seen := make(map[contracts.FactKey]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			return nil, &contracts.DuplicateKeyError{Key: contracts.FlowKey{
				Year:        year,
				ProductCode: key.ProductCode,
				Reporter:    a.refCountry,
				Partner:     key.Partner,
				Direction:   contracts.FlowExport,
			}}
		}
		seen[key] = struct{}{}

		rows = append(rows, contracts.FactRow{
			Year:               year,
			ProductCode:        key.ProductCode,
			Partner:            key.Partner,
			ExportRefToPartner: exports[key],
			ImportPartnerTotal: importTotals[key],
			ExportRefGlobal:    globalByProduct[key.ProductCode],
		})
	}

	if err := verify(rows, globalByProduct, year); err != nil {
		return nil, err
	}

	a.logger.WithFields(map[string]interface{}{
		"year":     year,
		"rows":     len(rows),
		"products": len(globalByProduct),
	}).Info("Fact table aggregated")

	return contracts.NewFactTable(year, rows), nil
}

// verify resums the bilateral export values per product from the final rows
// and checks them against the computed global totals. The two are built by
// independent passes, so a disagreement means the aggregation itself is
// broken and the run must not continue.
func verify(rows []contracts.FactRow, globalByProduct map[string]float64, year int) error {
	resummed := make(map[string]float64, len(globalByProduct))
	for i := range rows {
		resummed[rows[i].ProductCode] += rows[i].ExportRefToPartner
	}

	for product, computed := range globalByProduct {
		got := resummed[product]
		if !closeEnough(computed, got) {
			return &contracts.AggregationError{
				Year:        year,
				ProductCode: product,
				Computed:    computed,
				Resummed:    got,
			}
		}
	}
	return nil
}

func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= resumTolerance {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= scale*resumTolerance
}

// Package signals turns metrics and peer medians into candidate opportunity
// signals.
package signals

import (
	"fmt"
	"math"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
	"github.com/exportlens/backend/pkg/logger"
)

// Generator applies the emission thresholds and intensity weighting.
// Pure over its inputs; all tuning lives in the run config.
type Generator struct {
	cfg    *runconfig.Config
	logger *logger.Logger
}

// NewGenerator creates a signal generator.
func NewGenerator(cfg *runconfig.Config, log *logger.Logger) *Generator {
	return &Generator{cfg: cfg, logger: log}
}

// Generate emits every qualifying signal for the year. Supporting values on
// a signal are copied verbatim from the metrics and median rows that
// justified it; nothing is recomputed on the way out.
//
// A row qualifies for any signal only when it clears the volume floor:
// bilateral exports above the export minimum, or the partner's import market
// above the import minimum.
func (g *Generator) Generate(metrics *contracts.MetricsTable, medians *contracts.PeerMedianTable) []contracts.Signal {
	t := g.cfg.Thresholds
	var out []contracts.Signal

	for i := range metrics.Rows {
		row := &metrics.Rows[i]
		if row.ExportRefToPartner < t.MinExportUSD && row.ImportPartnerTotal < t.MinImportUSD {
			continue
		}

		out = append(out, g.gapSignals(row, medians)...)

		if s := g.yoyExportSignal(row); s != nil {
			out = append(out, *s)
		}
		if s := g.yoyShareSignal(row); s != nil {
			out = append(out, *s)
		}
	}

	g.logger.WithFields(map[string]interface{}{
		"year":    metrics.Year,
		"signals": len(out),
	}).Info("Signals generated")

	return out
}

// gapSignals emits one peer-gap signal per methodology where the reference
// country's share sits far enough under the peer median.
func (g *Generator) gapSignals(row *contracts.MetricsRow, medians *contracts.PeerMedianTable) []contracts.Signal {
	if row.ShareInPartnerImport == nil {
		return nil
	}
	share := *row.ShareInPartnerImport

	var out []contracts.Signal
	for _, m := range contracts.Methodologies() {
		med, ok := medians.Get(contracts.MedianKey{
			ProductCode: row.ProductCode,
			Partner:     row.Partner,
			Methodology: m,
		})
		if !ok || med.PeerMedianShare <= 0 {
			continue
		}

		relGap := (med.PeerMedianShare - share) / med.PeerMedianShare
		if relGap < g.cfg.Thresholds.GapRelMin {
			continue
		}

		out = append(out, contracts.Signal{
			Type:        contracts.GapSignalType(m),
			Year:        row.Year,
			ProductCode: row.ProductCode,
			Partner:     row.Partner,
			Methodology: m,
			Intensity:   g.gapIntensity(m, relGap, row),
			Value:       share,
			YoY:         row.YoYExportChange,
			PeerMedian:  contracts.Float64Ptr(med.PeerMedianShare),
			Peers:       med.Peers,
			Explanation: gapExplanation(m),
		})
	}
	return out
}

// gapIntensity blends the relative gap with the methodology's secondary
// factor: traded volume for the curated grouping, recent export growth for
// the opportunity clustering, nothing for trade structure.
func (g *Generator) gapIntensity(m contracts.Methodology, relGap float64, row *contracts.MetricsRow) float64 {
	w := g.weightsFor(m)

	secondary := 0.0
	switch m {
	case contracts.MethodologyCurated:
		secondary = clip01(row.ExportRefToPartner / g.cfg.Weights.VolumeNormUSD)
	case contracts.MethodologyOpportunity:
		if row.YoYExportChange != nil {
			secondary = clip01(*row.YoYExportChange)
		}
	}

	return w.Gap*clip01(relGap) + w.Secondary*secondary
}

func (g *Generator) weightsFor(m contracts.Methodology) runconfig.GapWeights {
	switch m {
	case contracts.MethodologyCurated:
		return g.cfg.Weights.Curated
	case contracts.MethodologyTradeStructure:
		return g.cfg.Weights.TradeStructure
	case contracts.MethodologyOpportunity:
		return g.cfg.Weights.Opportunity
	}
	return runconfig.GapWeights{Gap: 1}
}

func (g *Generator) yoyExportSignal(row *contracts.MetricsRow) *contracts.Signal {
	if row.YoYExportChange == nil {
		return nil
	}
	yoy := *row.YoYExportChange
	if math.Abs(yoy) < g.cfg.Thresholds.YoYExportMin {
		return nil
	}

	return &contracts.Signal{
		Type:        contracts.SignalYoYExport,
		Year:        row.Year,
		ProductCode: row.ProductCode,
		Partner:     row.Partner,
		Intensity:   clip01(math.Abs(yoy)),
		Value:       row.ExportRefToPartner,
		YoY:         row.YoYExportChange,
		Explanation: "Year-over-year change in bilateral export value crossed the alerting threshold.",
	}
}

// yoyShareSignal thresholds the partner-share movement in percentage points
// of the reference country's export mix, not as a ratio: a move from 0.1%
// to 0.2% of exports doubles the ratio but shifts almost nothing.
func (g *Generator) yoyShareSignal(row *contracts.MetricsRow) *contracts.Signal {
	if row.PartnerShareInRefExports == nil || row.YoYPartnerShareChange == nil {
		return nil
	}
	share, ratio := *row.PartnerShareInRefExports, *row.YoYPartnerShareChange
	if ratio <= -1 {
		return nil
	}

	// share = prior * (1 + ratio), so the absolute move in points is
	// 100 * share * ratio / (1 + ratio).
	points := 100 * share * ratio / (1 + ratio)
	if math.Abs(points) < g.cfg.Thresholds.YoYSharePointsMin {
		return nil
	}

	return &contracts.Signal{
		Type:        contracts.SignalYoYPartnerShare,
		Year:        row.Year,
		ProductCode: row.ProductCode,
		Partner:     row.Partner,
		Intensity:   clip01(math.Abs(ratio)),
		Value:       share,
		YoY:         row.YoYPartnerShareChange,
		Explanation: "The partner's share of reference-country exports moved by a material number of percentage points.",
	}
}

func gapExplanation(m contracts.Methodology) string {
	switch m {
	case contracts.MethodologyCurated:
		return "Market share sits below the median of an expert-curated peer group of comparable economies."
	case contracts.MethodologyTradeStructure:
		return "Market share sits below the median of countries with a similar import structure."
	case contracts.MethodologyOpportunity:
		return "Market share sits below the median of countries with a similar export-opportunity profile."
	}
	return fmt.Sprintf("Market share sits below the %s peer-group median.", m)
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

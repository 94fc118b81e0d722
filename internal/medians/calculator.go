// Package medians computes peer-group median market shares for every
// (product, partner) pair the reference country trades in.
package medians

import (
	"sort"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

// Calculator derives peer-median shares from raw flows and the peer
// assignments. Pure over its inputs.
type Calculator struct {
	refCountry string
	logger     *logger.Logger
}

// NewCalculator creates a calculator for the given reference country (ISO3).
func NewCalculator(refCountry string, log *logger.Logger) *Calculator {
	return &Calculator{refCountry: refCountry, logger: log}
}

// Compute builds the peer-median table for the fact table's year: for every
// fact row and methodology, the median of the peers' shares in the partner's
// import market.
//
// A peer's share is its exports to the partner over the partner's total
// imports of the product. Peers with no recorded trade in the pair are
// excluded from the median input, never counted as zero; when no peer trades
// the pair at all, no row is produced. The reference country must have an
// assignment under every methodology or the run aborts.
func (c *Calculator) Compute(facts *contracts.FactTable, flows []contracts.BilateralFlow, set *contracts.PeerAssignmentSet) (*contracts.PeerMedianTable, error) {
	assignments := make(map[contracts.Methodology]*contracts.PeerAssignment)
	for _, m := range contracts.Methodologies() {
		a, ok := set.Get(c.refCountry, m)
		if !ok {
			return nil, &contracts.UnassignedCountryError{
				Country:     c.refCountry,
				Methodology: m,
				Year:        facts.Year,
			}
		}
		assignments[m] = a
	}

	peerExports := c.indexPeerExports(flows, facts.Year, assignments)

	var rows []contracts.PeerMedianRow
	for i := range facts.Rows {
		fact := &facts.Rows[i]
		if fact.ImportPartnerTotal == 0 {
			continue
		}

		for _, m := range contracts.Methodologies() {
			a := assignments[m]
			shares := peerShares(fact, a.Peers, peerExports)
			if len(shares) == 0 {
				continue
			}

			rows = append(rows, contracts.PeerMedianRow{
				Year:            facts.Year,
				ProductCode:     fact.ProductCode,
				Partner:         fact.Partner,
				Methodology:     m,
				PeerMedianShare: median(shares),
				PeerCount:       len(shares),
				Peers:           a.Peers,
			})
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"year": facts.Year,
		"rows": len(rows),
	}).Info("Peer medians computed")

	return contracts.NewPeerMedianTable(facts.Year, rows), nil
}

type peerExportKey struct {
	fact contracts.FactKey
	peer string
}

// indexPeerExports sums the year's export flows from any country in any of
// the reference country's peer sets, keyed by (product, partner, peer).
func (c *Calculator) indexPeerExports(flows []contracts.BilateralFlow, year int, assignments map[contracts.Methodology]*contracts.PeerAssignment) map[peerExportKey]float64 {
	relevant := make(map[string]struct{})
	for _, a := range assignments {
		for _, p := range a.Peers {
			relevant[p] = struct{}{}
		}
	}

	out := make(map[peerExportKey]float64)
	for i := range flows {
		f := &flows[i]
		if f.Year != year || f.Direction != contracts.FlowExport {
			continue
		}
		if _, ok := relevant[f.Reporter]; !ok {
			continue
		}
		key := peerExportKey{
			fact: contracts.FactKey{ProductCode: f.ProductCode, Partner: f.Partner},
			peer: f.Reporter,
		}
		out[key] += f.Value
	}
	return out
}

func peerShares(fact *contracts.FactRow, peers []string, peerExports map[peerExportKey]float64) []float64 {
	var shares []float64
	for _, peer := range peers {
		value, ok := peerExports[peerExportKey{fact: fact.Key(), peer: peer}]
		if !ok || value == 0 {
			continue
		}
		shares = append(shares, value/fact.ImportPartnerTotal)
	}
	return shares
}

// median of a non-empty sample; even-sized samples average the central two.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// Package ranking deduplicates, balances and caps the candidate signals
// into the final ranked output.
package ranking

import (
	"sort"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
	"github.com/exportlens/backend/pkg/logger"
)

// typeOrder fixes the round-robin rotation of the mixed top list.
var typeOrder = []contracts.SignalType{
	contracts.SignalPeerGapCurated,
	contracts.SignalPeerGapTradeStructure,
	contracts.SignalPeerGapOpportunity,
	contracts.SignalYoYExport,
	contracts.SignalYoYPartnerShare,
}

// Ranker produces the bounded ranked set out of raw candidates.
// Deterministic: the same candidates in any order produce the same output.
type Ranker struct {
	cfg    *runconfig.Config
	logger *logger.Logger
}

// NewRanker creates a ranker.
func NewRanker(cfg *runconfig.Config, log *logger.Logger) *Ranker {
	return &Ranker{cfg: cfg, logger: log}
}

// Rank builds both output lists.
//
// Bulk keeps at most GapPerPartner signals per (partner, type) so a single
// partner market cannot dominate the precomputed set. Top is the mixed
// display list: a round-robin across signal types over the bulk set, capped
// at MaxPerType per type and MaxTotal overall.
func (r *Ranker) Rank(year int, candidates []contracts.Signal) *contracts.RankedSet {
	ordered := deduplicate(candidates)

	bulk := r.balancePerPartner(ordered)
	top := r.mixTop(bulk)

	set := &contracts.RankedSet{
		Year: year,
		Top:  withRanks(top),
		Bulk: withRanks(bulk),
	}

	r.logger.WithFields(map[string]interface{}{
		"year":       year,
		"candidates": len(candidates),
		"bulk":       len(set.Bulk),
		"top":        len(set.Top),
	}).Info("Signals ranked")

	return set
}

// deduplicate sorts candidates into the total order and keeps the first
// signal per (product, partner, type) key, which is the strongest one.
func deduplicate(candidates []contracts.Signal) []contracts.Signal {
	ordered := make([]contracts.Signal, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return signalLess(&ordered[i], &ordered[j])
	})

	seen := make(map[contracts.SignalKey]struct{}, len(ordered))
	out := ordered[:0]
	for _, s := range ordered {
		key := s.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// signalLess is the total order on signals: intensity desc, supporting value
// desc, then product, partner and type ascending so ties never depend on
// input order.
func signalLess(a, b *contracts.Signal) bool {
	if a.Intensity != b.Intensity {
		return a.Intensity > b.Intensity
	}
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	if a.ProductCode != b.ProductCode {
		return a.ProductCode < b.ProductCode
	}
	if a.Partner != b.Partner {
		return a.Partner < b.Partner
	}
	return a.Type < b.Type
}

type partnerTypeKey struct {
	partner string
	typ     contracts.SignalType
}

func (r *Ranker) balancePerPartner(ordered []contracts.Signal) []contracts.Signal {
	counts := make(map[partnerTypeKey]int)
	out := make([]contracts.Signal, 0, len(ordered))
	for _, s := range ordered {
		key := partnerTypeKey{partner: s.Partner, typ: s.Type}
		if counts[key] >= r.cfg.Caps.GapPerPartner {
			continue
		}
		counts[key]++
		out = append(out, s)
	}
	return out
}

// mixTop rotates over the signal types picking the strongest remaining
// signal of each, so the short display list always mixes methodologies
// instead of being swamped by whichever scores highest.
func (r *Ranker) mixTop(bulk []contracts.Signal) []contracts.Signal {
	byType := make(map[contracts.SignalType][]contracts.Signal)
	for _, s := range bulk {
		byType[s.Type] = append(byType[s.Type], s)
	}

	taken := make(map[contracts.SignalType]int)
	out := make([]contracts.Signal, 0, r.cfg.Caps.MaxTotal)
	for len(out) < r.cfg.Caps.MaxTotal {
		progressed := false
		for _, typ := range typeOrder {
			if len(out) >= r.cfg.Caps.MaxTotal {
				break
			}
			n := taken[typ]
			if n >= r.cfg.Caps.MaxPerType || n >= len(byType[typ]) {
				continue
			}
			out = append(out, byType[typ][n])
			taken[typ] = n + 1
			progressed = true
		}
		if !progressed {
			break
		}
	}
	return out
}

func withRanks(signals []contracts.Signal) []contracts.RankedSignal {
	out := make([]contracts.RankedSignal, len(signals))
	for i, s := range signals {
		out[i] = contracts.RankedSignal{Signal: s, Rank: i + 1}
	}
	return out
}

package peers

import (
	"sort"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
)

// TradeStructureAssigner clusters countries on what they import: each
// country becomes a vector of import-value shares by HS2 chapter for the
// target year, clustered by cosine similarity.
type TradeStructureAssigner struct {
	cfg runconfig.Clustering
}

// NewTradeStructureAssigner creates the assigner from clustering parameters.
func NewTradeStructureAssigner(cfg runconfig.Clustering) *TradeStructureAssigner {
	return &TradeStructureAssigner{cfg: cfg}
}

func (a *TradeStructureAssigner) Methodology() contracts.Methodology {
	return contracts.MethodologyTradeStructure
}

// Assign clusters every country with import reporting in the target year.
// Countries without import reporting get no assignment; whether that matters
// is decided by the coverage check downstream.
func (a *TradeStructureAssigner) Assign(in Input) ([]contracts.PeerAssignment, error) {
	// country -> HS2 chapter -> import value
	byCountry := make(map[string]map[string]float64)
	chapters := make(map[string]struct{})

	for i := range in.Flows {
		f := &in.Flows[i]
		if f.Year != in.Year || f.Direction != contracts.FlowImport {
			continue
		}
		chapter := f.ProductCode[:2]
		chapters[chapter] = struct{}{}

		if byCountry[f.Reporter] == nil {
			byCountry[f.Reporter] = make(map[string]float64)
		}
		byCountry[f.Reporter][chapter] += f.Value
	}

	if len(byCountry) == 0 {
		return nil, nil
	}

	countries := sortedKeys(byCountry)
	chapterList := make([]string, 0, len(chapters))
	for c := range chapters {
		chapterList = append(chapterList, c)
	}
	sort.Strings(chapterList)

	vectors := make([][]float64, len(countries))
	for i, c := range countries {
		total := 0.0
		for _, v := range byCountry[c] {
			total += v
		}
		vec := make([]float64, len(chapterList))
		if total > 0 {
			for j, chapter := range chapterList {
				vec[j] = byCountry[c][chapter] / total
			}
		}
		vectors[i] = vec
	}

	labels := cosineKMeans(vectors, a.cfg.KTradeStructure, a.cfg.MaxIterations, a.cfg.Seed)
	return materialize(in.Year, contracts.MethodologyTradeStructure, countries, labels), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

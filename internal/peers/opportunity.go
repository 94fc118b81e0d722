package peers

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
)

// OpportunityAssigner clusters countries on where their exports point: a
// compressed export-share profile over the globally largest products, a
// compressed export-growth profile over the same products, and three
// openness measures of the partner mix.
type OpportunityAssigner struct {
	cfg runconfig.Clustering
}

// NewOpportunityAssigner creates the assigner from clustering parameters.
func NewOpportunityAssigner(cfg runconfig.Clustering) *OpportunityAssigner {
	return &OpportunityAssigner{cfg: cfg}
}

func (a *OpportunityAssigner) Methodology() contracts.Methodology {
	return contracts.MethodologyOpportunity
}

// Assign clusters every country with export reporting in the target year.
func (a *OpportunityAssigner) Assign(in Input) ([]contracts.PeerAssignment, error) {
	exp := collectExports(in.Flows, in.Year, a.cfg.WindowYears)
	if len(exp.countries) == 0 {
		return nil, nil
	}

	topProducts := exp.topProducts(in.Year, a.cfg.TopProducts)

	shareScores, err := compress(exp.shareMatrix(in.Year, topProducts), a.cfg.ShareComponents)
	if err != nil {
		return nil, fmt.Errorf("compress export shares: %w", err)
	}
	growthScores, err := compress(exp.growthMatrix(in.Year, a.cfg.WindowYears, topProducts), a.cfg.GrowthComponents)
	if err != nil {
		return nil, fmt.Errorf("compress export growth: %w", err)
	}
	openness := exp.opennessMatrix(in.Year)

	n := len(exp.countries)
	vectors := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, 0, len(shareScores[i])+len(growthScores[i])+len(openness[i]))
		row = append(row, shareScores[i]...)
		row = append(row, growthScores[i]...)
		row = append(row, openness[i]...)
		vectors[i] = row
	}

	labels := cosineKMeans(vectors, a.cfg.KOpportunity, a.cfg.MaxIterations, a.cfg.Seed)
	return materialize(in.Year, contracts.MethodologyOpportunity, exp.countries, labels), nil
}

// exportIndex holds the per-(country, product, year) export values the
// feature matrices are derived from, plus the per-year partner breakdown
// for the openness features.
type exportIndex struct {
	countries []string
	countryIx map[string]int

	// value[country][product][year]
	value map[string]map[string]map[int]float64
	// partner export value in the target year: partners[country][partner]
	partners map[string]map[string]float64
}

func collectExports(flows []contracts.BilateralFlow, year, window int) *exportIndex {
	idx := &exportIndex{
		countryIx: make(map[string]int),
		value:     make(map[string]map[string]map[int]float64),
		partners:  make(map[string]map[string]float64),
	}
	minYear := year - window + 1

	for i := range flows {
		f := &flows[i]
		if f.Direction != contracts.FlowExport || f.Year < minYear || f.Year > year {
			continue
		}

		if idx.value[f.Reporter] == nil {
			idx.value[f.Reporter] = make(map[string]map[int]float64)
			idx.partners[f.Reporter] = make(map[string]float64)
		}
		if idx.value[f.Reporter][f.ProductCode] == nil {
			idx.value[f.Reporter][f.ProductCode] = make(map[int]float64)
		}
		idx.value[f.Reporter][f.ProductCode][f.Year] += f.Value

		if f.Year == year {
			idx.partners[f.Reporter][f.Partner] += f.Value
		}
	}

	// Only countries exporting in the target year are clustered.
	for country, partners := range idx.partners {
		if len(partners) > 0 {
			idx.countries = append(idx.countries, country)
		}
	}
	sort.Strings(idx.countries)
	for i, c := range idx.countries {
		idx.countryIx[c] = i
	}
	return idx
}

// topProducts ranks products by global export value in the target year and
// returns the top n codes, ties broken by code for determinism.
func (e *exportIndex) topProducts(year, n int) []string {
	totals := make(map[string]float64)
	for _, c := range e.countries {
		for product, byYear := range e.value[c] {
			totals[product] += byYear[year]
		}
	}

	products := make([]string, 0, len(totals))
	for p := range totals {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		if totals[products[i]] != totals[products[j]] {
			return totals[products[i]] > totals[products[j]]
		}
		return products[i] < products[j]
	})

	if len(products) > n {
		products = products[:n]
	}
	return products
}

// shareMatrix builds the countries x products matrix of export shares: each
// cell is the product's share of the country's total target-year exports.
func (e *exportIndex) shareMatrix(year int, products []string) *mat.Dense {
	m := mat.NewDense(len(e.countries), len(products), nil)
	for i, c := range e.countries {
		total := 0.0
		for _, byYear := range e.value[c] {
			total += byYear[year]
		}
		if total == 0 {
			continue
		}
		for j, p := range products {
			m.Set(i, j, e.value[c][p][year]/total)
		}
	}
	return m
}

// growthMatrix builds the countries x products matrix of export CAGR over
// the window, clipped to [-1, 1]. Pairs with no start-year value stay zero;
// growth from nothing is not meaningful, not infinite.
func (e *exportIndex) growthMatrix(year, window int, products []string) *mat.Dense {
	startYear := year - window + 1
	exponent := 1.0 / float64(window-1)

	m := mat.NewDense(len(e.countries), len(products), nil)
	for i, c := range e.countries {
		for j, p := range products {
			byYear := e.value[c][p]
			if byYear == nil {
				continue
			}
			start, end := byYear[startYear], byYear[year]
			if start <= 0 || end <= 0 {
				continue
			}
			cagr := math.Pow(end/start, exponent) - 1
			m.Set(i, j, clip(cagr, -1, 1))
		}
	}
	return m
}

// opennessMatrix builds three partner-mix features per country: the HHI of
// partner shares, the top partner's share, and the partner count normalized
// by the largest count observed.
func (e *exportIndex) opennessMatrix(year int) [][]float64 {
	maxPartners := 0
	for _, c := range e.countries {
		if n := len(e.partners[c]); n > maxPartners {
			maxPartners = n
		}
	}

	out := make([][]float64, len(e.countries))
	for i, c := range e.countries {
		shares := e.partners[c]
		total := 0.0
		for _, v := range shares {
			total += v
		}

		hhi, top := 0.0, 0.0
		if total > 0 {
			for _, v := range shares {
				s := v / total
				hhi += s * s
				if s > top {
					top = s
				}
			}
		}

		count := 0.0
		if maxPartners > 0 {
			count = float64(len(shares)) / float64(maxPartners)
		}
		out[i] = []float64{hhi, top, count}
	}
	return out
}

// compress reduces the matrix to its leading singular components, returning
// per-row score vectors (U scaled by the singular values).
func compress(m *mat.Dense, components int) ([][]float64, error) {
	rows, cols := m.Dims()
	if components > cols {
		components = cols
	}
	if components > rows {
		components = rows
	}

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	var u mat.Dense
	svd.UTo(&u)
	singular := svd.Values(nil)

	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		scores := make([]float64, components)
		for j := 0; j < components; j++ {
			scores[j] = u.At(i, j) * singular[j]
		}
		out[i] = scores
	}
	return out, nil
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

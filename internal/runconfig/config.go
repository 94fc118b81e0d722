package runconfig

// Config is the versioned run-parameter set for the signal pipeline.
// Thresholds and intensity weights are tuned business parameters, not
// structural invariants; they live here so a parameter change never touches
// pipeline code.
type Config struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
	Caps       Caps       `yaml:"caps" json:"caps"`
	Clustering Clustering `yaml:"clustering" json:"clustering"`
	Weights    Weights    `yaml:"weights" json:"weights"`
}

// Meta identifies the parameter set.
type Meta struct {
	ConfigID string `yaml:"config_id" json:"config_id"`
	Version  string `yaml:"version" json:"version"`
}

// Thresholds gate signal emission.
type Thresholds struct {
	// Volume floor: a row qualifies when either side clears its minimum.
	MinExportUSD float64 `yaml:"min_export_usd" json:"min_export_usd"`
	MinImportUSD float64 `yaml:"min_import_usd" json:"min_import_usd"`

	// Minimum relative gap (peer_median - share) / peer_median.
	GapRelMin float64 `yaml:"gap_rel_min" json:"gap_rel_min"`
	// Minimum |YoY export change| ratio.
	YoYExportMin float64 `yaml:"yoy_export_min" json:"yoy_export_min"`
	// Minimum |partner-share change| in percentage points.
	YoYSharePointsMin float64 `yaml:"yoy_share_points_min" json:"yoy_share_points_min"`

	// Maximum tolerated share of ingested records excluded for
	// unresolvable country codes before the run aborts.
	MaxExcludedShare float64 `yaml:"max_excluded_share" json:"max_excluded_share"`
}

// Caps bound the ranked output.
type Caps struct {
	MaxTotal      int `yaml:"max_total" json:"max_total"`
	MaxPerType    int `yaml:"max_per_type" json:"max_per_type"`
	GapPerPartner int `yaml:"gap_per_partner" json:"gap_per_partner"`
}

// Clustering parameterizes the two computed peer-group methodologies.
type Clustering struct {
	KTradeStructure int   `yaml:"k_trade_structure" json:"k_trade_structure"`
	KOpportunity    int   `yaml:"k_opportunity" json:"k_opportunity"`
	MaxIterations   int   `yaml:"max_iterations" json:"max_iterations"`
	Seed            int64 `yaml:"seed" json:"seed"`

	// Opportunity feature pipeline.
	WindowYears      int `yaml:"window_years" json:"window_years"`
	TopProducts      int `yaml:"top_products" json:"top_products"`
	ShareComponents  int `yaml:"share_components" json:"share_components"`
	GrowthComponents int `yaml:"growth_components" json:"growth_components"`
}

// Weights combine gap magnitude with a secondary factor into the intensity
// score. Each methodology answers a different economic question, so the
// secondary factor differs by design.
type Weights struct {
	Curated        GapWeights `yaml:"curated" json:"curated"`
	TradeStructure GapWeights `yaml:"trade_structure" json:"trade_structure"`
	Opportunity    GapWeights `yaml:"opportunity" json:"opportunity"`

	// VolumeNormUSD normalizes the volume factor for the curated weighting.
	VolumeNormUSD float64 `yaml:"volume_norm_usd" json:"volume_norm_usd"`
}

// GapWeights splits intensity between gap magnitude and a secondary factor.
type GapWeights struct {
	Gap       float64 `yaml:"gap" json:"gap"`
	Secondary float64 `yaml:"secondary" json:"secondary"`
}

// Default returns the shipped parameter set, used when no YAML is present.
func Default() *Config {
	return &Config{
		Meta: Meta{
			ConfigID: "exportlens_signals_v1",
			Version:  "1.0",
		},
		Thresholds: Thresholds{
			MinExportUSD:      100_000,
			MinImportUSD:      5_000_000,
			GapRelMin:         0.20,
			YoYExportMin:      0.30,
			YoYSharePointsMin: 2.0,
			MaxExcludedShare:  0.05,
		},
		Caps: Caps{
			MaxTotal:      10,
			MaxPerType:    4,
			GapPerPartner: 3,
		},
		Clustering: Clustering{
			KTradeStructure:  10,
			KOpportunity:     10,
			MaxIterations:    200,
			Seed:             42,
			WindowYears:      4,
			TopProducts:      500,
			ShareComponents:  40,
			GrowthComponents: 20,
		},
		Weights: Weights{
			Curated:        GapWeights{Gap: 0.7, Secondary: 0.3},
			TradeStructure: GapWeights{Gap: 1.0, Secondary: 0.0},
			Opportunity:    GapWeights{Gap: 0.8, Secondary: 0.2},
			VolumeNormUSD:  1e9,
		},
	}
}

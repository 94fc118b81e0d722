package runconfig

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML parameter file. KnownFields(true) makes typos and
// stale fields fail immediately instead of silently falling back to zero.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode run config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads the YAML parameter file, falling back to the shipped
// defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects parameter sets the pipeline cannot run with.
func Validate(cfg *Config) error {
	t := cfg.Thresholds
	if t.GapRelMin < 0 || t.GapRelMin >= 1 {
		return fmt.Errorf("thresholds.gap_rel_min must be in [0,1), got %v", t.GapRelMin)
	}
	if t.YoYExportMin < 0 {
		return fmt.Errorf("thresholds.yoy_export_min must be non-negative, got %v", t.YoYExportMin)
	}
	if t.YoYSharePointsMin < 0 {
		return fmt.Errorf("thresholds.yoy_share_points_min must be non-negative, got %v", t.YoYSharePointsMin)
	}
	if t.MinExportUSD < 0 || t.MinImportUSD < 0 {
		return fmt.Errorf("thresholds volume floors must be non-negative")
	}
	if t.MaxExcludedShare <= 0 || t.MaxExcludedShare > 1 {
		return fmt.Errorf("thresholds.max_excluded_share must be in (0,1], got %v", t.MaxExcludedShare)
	}

	c := cfg.Caps
	if c.MaxTotal <= 0 || c.MaxPerType <= 0 || c.GapPerPartner <= 0 {
		return fmt.Errorf("caps must be positive")
	}

	cl := cfg.Clustering
	if cl.KTradeStructure < 2 || cl.KOpportunity < 2 {
		return fmt.Errorf("clustering k must be at least 2")
	}
	if cl.MaxIterations <= 0 {
		return fmt.Errorf("clustering.max_iterations must be positive")
	}
	if cl.WindowYears < 2 {
		return fmt.Errorf("clustering.window_years must be at least 2")
	}
	if cl.TopProducts <= 0 || cl.ShareComponents <= 0 || cl.GrowthComponents <= 0 {
		return fmt.Errorf("clustering feature dimensions must be positive")
	}

	for _, w := range []struct {
		name string
		w    GapWeights
	}{
		{"curated", cfg.Weights.Curated},
		{"trade_structure", cfg.Weights.TradeStructure},
		{"opportunity", cfg.Weights.Opportunity},
	} {
		sum := w.w.Gap + w.w.Secondary
		if sum < 0.99 || sum > 1.01 {
			return fmt.Errorf("weights.%s must sum to 1.0, got %v", w.name, sum)
		}
	}
	if cfg.Weights.VolumeNormUSD <= 0 {
		return fmt.Errorf("weights.volume_norm_usd must be positive")
	}

	return nil
}

// Hash returns the SHA-256 of the canonical JSON form of the config. Structs
// marshal with deterministic field order, so the hash is reproducible and
// usable in the run fingerprint.
func Hash(cfg *Config) (string, error) {
	jsonBytes, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(jsonBytes)
	return hex.EncodeToString(sum[:]), nil
}

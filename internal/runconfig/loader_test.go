package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validYAML = `
meta:
  config_id: test_v1
  version: "1.0"
thresholds:
  min_export_usd: 100000
  min_import_usd: 5000000
  gap_rel_min: 0.25
  yoy_export_min: 0.30
  yoy_share_points_min: 2.0
  max_excluded_share: 0.05
caps:
  max_total: 10
  max_per_type: 4
  gap_per_partner: 3
clustering:
  k_trade_structure: 10
  k_opportunity: 8
  max_iterations: 200
  seed: 42
  window_years: 4
  top_products: 500
  share_components: 40
  growth_components: 20
weights:
  curated:
    gap: 0.7
    secondary: 0.3
  trade_structure:
    gap: 1.0
    secondary: 0.0
  opportunity:
    gap: 0.8
    secondary: 0.2
  volume_norm_usd: 1000000000
`

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test_v1", cfg.Meta.ConfigID)
	assert.Equal(t, 0.25, cfg.Thresholds.GapRelMin)
	assert.Equal(t, 8, cfg.Clustering.KOpportunity)
	assert.Equal(t, int64(42), cfg.Clustering.Seed)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, validYAML+"\nextra_section:\n  oops: 1\n"))
	require.Error(t, err)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidateRejectsBadWeights(t *testing.T) {
	cfg := Default()
	cfg.Weights.Curated = GapWeights{Gap: 0.5, Secondary: 0.3}
	require.Error(t, Validate(cfg))
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.GapRelMin = 1.5
	require.Error(t, Validate(cfg))

	cfg = Default()
	cfg.Thresholds.MaxExcludedShare = 0
	require.Error(t, Validate(cfg))
}

func TestHashStableAndSensitive(t *testing.T) {
	a, err := Hash(Default())
	require.NoError(t, err)
	b, err := Hash(Default())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	changed := Default()
	changed.Thresholds.GapRelMin = 0.21
	c, err := Hash(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

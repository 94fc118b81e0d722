package peers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/internal/runconfig"
)

func clusteringParams(k int) runconfig.Clustering {
	cfg := runconfig.Default().Clustering
	cfg.KTradeStructure = k
	cfg.KOpportunity = k
	return cfg
}

func flow(year int, product, reporter, partner string, dir contracts.FlowDirection, value float64) contracts.BilateralFlow {
	return contracts.BilateralFlow{
		Year: year, ProductCode: product, Reporter: reporter,
		Partner: partner, Direction: dir, Value: value,
	}
}

func TestTradeStructureGroupsSimilarImportMixes(t *testing.T) {
	// CZE and SVK import machinery (84), BRA and ARG import fuels (27).
	flows := []contracts.BilateralFlow{
		flow(2024, "840999", "CZE", "DEU", contracts.FlowImport, 100),
		flow(2024, "841112", "CZE", "DEU", contracts.FlowImport, 50),
		flow(2024, "840999", "SVK", "DEU", contracts.FlowImport, 80),
		flow(2024, "841112", "SVK", "DEU", contracts.FlowImport, 60),
		flow(2024, "270900", "BRA", "SAU", contracts.FlowImport, 200),
		flow(2024, "271019", "BRA", "SAU", contracts.FlowImport, 90),
		flow(2024, "270900", "ARG", "SAU", contracts.FlowImport, 150),
		flow(2024, "271019", "ARG", "SAU", contracts.FlowImport, 70),
	}

	a := NewTradeStructureAssigner(clusteringParams(2))
	assignments, err := a.Assign(Input{Year: 2024, Flows: flows})
	require.NoError(t, err)
	require.Len(t, assignments, 4)

	set := contracts.NewPeerAssignmentSet(2024, assignments)
	cze, _ := set.Get("CZE", contracts.MethodologyTradeStructure)
	svk, _ := set.Get("SVK", contracts.MethodologyTradeStructure)
	bra, _ := set.Get("BRA", contracts.MethodologyTradeStructure)
	arg, _ := set.Get("ARG", contracts.MethodologyTradeStructure)

	assert.Equal(t, cze.ClusterID, svk.ClusterID)
	assert.Equal(t, bra.ClusterID, arg.ClusterID)
	assert.NotEqual(t, cze.ClusterID, bra.ClusterID)

	assert.Equal(t, []string{"SVK"}, cze.Peers)
	assert.Equal(t, []string{"ARG"}, bra.Peers)
}

func TestTradeStructureIgnoresExportsAndOtherYears(t *testing.T) {
	flows := []contracts.BilateralFlow{
		flow(2024, "840999", "CZE", "DEU", contracts.FlowExport, 100),
		flow(2023, "840999", "CZE", "DEU", contracts.FlowImport, 100),
	}

	a := NewTradeStructureAssigner(clusteringParams(2))
	assignments, err := a.Assign(Input{Year: 2024, Flows: flows})
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestOpportunityGroupsSimilarExportProfiles(t *testing.T) {
	cfg := clusteringParams(2)
	cfg.WindowYears = 2

	var flows []contracts.BilateralFlow
	for _, year := range []int{2023, 2024} {
		// Machinery exporters.
		flows = append(flows,
			flow(year, "840999", "CZE", "DEU", contracts.FlowExport, 100),
			flow(year, "841112", "CZE", "AUT", contracts.FlowExport, 40),
			flow(year, "840999", "SVK", "DEU", contracts.FlowExport, 90),
			flow(year, "841112", "SVK", "AUT", contracts.FlowExport, 50),
			// Fuel exporters.
			flow(year, "270900", "SAU", "CHN", contracts.FlowExport, 500),
			flow(year, "271019", "SAU", "IND", contracts.FlowExport, 100),
			flow(year, "270900", "ARE", "CHN", contracts.FlowExport, 400),
			flow(year, "271019", "ARE", "IND", contracts.FlowExport, 120),
		)
	}

	a := NewOpportunityAssigner(cfg)
	assignments, err := a.Assign(Input{Year: 2024, Flows: flows})
	require.NoError(t, err)
	require.Len(t, assignments, 4)

	set := contracts.NewPeerAssignmentSet(2024, assignments)
	cze, _ := set.Get("CZE", contracts.MethodologyOpportunity)
	svk, _ := set.Get("SVK", contracts.MethodologyOpportunity)
	sau, _ := set.Get("SAU", contracts.MethodologyOpportunity)
	are, _ := set.Get("ARE", contracts.MethodologyOpportunity)

	assert.Equal(t, cze.ClusterID, svk.ClusterID)
	assert.Equal(t, sau.ClusterID, are.ClusterID)
	assert.NotEqual(t, cze.ClusterID, sau.ClusterID)
}

func TestOpportunityDeterministicAcrossRuns(t *testing.T) {
	cfg := clusteringParams(3)
	cfg.WindowYears = 2

	var flows []contracts.BilateralFlow
	countries := []string{"CZE", "SVK", "POL", "DEU", "AUT", "HUN"}
	products := []string{"840999", "270900", "760110"}
	for ci, c := range countries {
		for pi, p := range products {
			for _, year := range []int{2023, 2024} {
				v := float64((ci+1)*(pi+2)*10 + year - 2020)
				flows = append(flows, flow(year, p, c, "USA", contracts.FlowExport, v))
			}
		}
	}

	a := NewOpportunityAssigner(cfg)
	first, err := a.Assign(Input{Year: 2024, Flows: flows})
	require.NoError(t, err)
	second, err := a.Assign(Input{Year: 2024, Flows: flows})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAssignAllCombinesMethodologies(t *testing.T) {
	curated, err := NewCuratedAssigner(map[string][]string{"a": {"CZE", "SVK"}})
	require.NoError(t, err)

	flows := []contracts.BilateralFlow{
		flow(2024, "840999", "CZE", "DEU", contracts.FlowImport, 100),
		flow(2024, "840999", "SVK", "DEU", contracts.FlowImport, 90),
		flow(2024, "840999", "CZE", "DEU", contracts.FlowExport, 100),
		flow(2024, "840999", "SVK", "DEU", contracts.FlowExport, 90),
	}

	set, err := AssignAll(
		Input{Year: 2024, Flows: flows},
		[]Assigner{
			curated,
			NewTradeStructureAssigner(clusteringParams(2)),
			NewOpportunityAssigner(clusteringParams(2)),
		},
	)
	require.NoError(t, err)

	assert.NoError(t, RequireAssigned(set, []string{"CZE"}))
}

package facts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/logger"
)

func exportFlow(year int, product, reporter, partner string, value float64) contracts.BilateralFlow {
	return contracts.BilateralFlow{
		Year: year, ProductCode: product, Reporter: reporter,
		Partner: partner, Direction: contracts.FlowExport, Value: value,
	}
}

func importFlow(year int, product, reporter, partner string, value float64) contracts.BilateralFlow {
	return contracts.BilateralFlow{
		Year: year, ProductCode: product, Reporter: reporter,
		Partner: partner, Direction: contracts.FlowImport, Value: value,
	}
}

func TestAggregateRecomputesGlobalExports(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "760110", "CZE", "DEU", 100),
		exportFlow(2024, "760110", "CZE", "POL", 250),
		exportFlow(2024, "760110", "CZE", "AUT", 50),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)
	require.Equal(t, 3, table.Count())

	for _, row := range table.Rows {
		assert.Equal(t, float64(400), row.ExportRefGlobal, "partner %s", row.Partner)
	}

	row, ok := table.Get(contracts.FactKey{ProductCode: "760110", Partner: "POL"})
	require.True(t, ok)
	assert.Equal(t, float64(250), row.ExportRefToPartner)
}

func TestAggregateSumsDuplicateRawRows(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "270900", "CZE", "DEU", 30),
		exportFlow(2024, "270900", "CZE", "DEU", 70),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count())
	assert.Equal(t, float64(100), table.Rows[0].ExportRefToPartner)
}

func TestAggregatePartnerImportTotalsAllOrigins(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "760110", "CZE", "DEU", 100),
		// DEU's own import reporting, three origins including CZE.
		importFlow(2024, "760110", "DEU", "CZE", 120),
		importFlow(2024, "760110", "DEU", "CHN", 500),
		importFlow(2024, "760110", "DEU", "USA", 380),
		// Another importer's reporting must not leak into DEU's total.
		importFlow(2024, "760110", "POL", "CHN", 999),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)

	row, ok := table.Get(contracts.FactKey{ProductCode: "760110", Partner: "DEU"})
	require.True(t, ok)
	assert.Equal(t, float64(1000), row.ImportPartnerTotal)
}

func TestAggregateIgnoresOtherYearsAndReporters(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "760110", "CZE", "DEU", 100),
		exportFlow(2023, "760110", "CZE", "DEU", 900),
		exportFlow(2024, "760110", "SVK", "DEU", 900),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)
	require.Equal(t, 1, table.Count())
	assert.Equal(t, float64(100), table.Rows[0].ExportRefToPartner)
	assert.Equal(t, float64(100), table.Rows[0].ExportRefGlobal)
}

func TestAggregateMissingImportReportingIsZero(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "760110", "CZE", "DEU", 100),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)

	row, ok := table.Get(contracts.FactKey{ProductCode: "760110", Partner: "DEU"})
	require.True(t, ok)
	assert.Zero(t, row.ImportPartnerTotal)
}

func TestAggregateDeterministicRowOrder(t *testing.T) {
	flows := []contracts.BilateralFlow{
		exportFlow(2024, "760110", "CZE", "POL", 1),
		exportFlow(2024, "270900", "CZE", "DEU", 1),
		exportFlow(2024, "270900", "CZE", "AUT", 1),
	}

	agg := NewAggregator("CZE", logger.NewNop())
	table, err := agg.Aggregate(flows, 2024)
	require.NoError(t, err)
	require.Equal(t, 3, table.Count())

	assert.Equal(t, "270900", table.Rows[0].ProductCode)
	assert.Equal(t, "AUT", table.Rows[0].Partner)
	assert.Equal(t, "270900", table.Rows[1].ProductCode)
	assert.Equal(t, "DEU", table.Rows[1].Partner)
	assert.Equal(t, "760110", table.Rows[2].ProductCode)
}

package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func testCostModel() CostModel {
	return CostModel{
		RecordsPerBillingUnit: 1000,
		UnitReadCost:          0.00025,
		StorageAccessRate:     0.0007,
		SelectQueryRate:       0.002,
		AvgRecordSizeKB:       2.0,
	}
}

func TestEstimateHotTier(t *testing.T) {
	m := testCostModel()

	tests := []struct {
		records int
		want    float64
	}{
		{0, 0},
		{1, 0.00025},
		{1000, 0.00025},
		{1001, 0.0005},
		{2500, 0.00075},
	}

	for _, tt := range tests {
		analysis := m.Estimate(TierHot, tt.records)
		require.InDelta(t, tt.want, analysis.DataStorageCost, 1e-9, "records=%d", tt.records)
		require.Zero(t, analysis.QueryingCost)
		require.InDelta(t, tt.want, analysis.TotalCost, 1e-9)
	}
}

func TestEstimateArchiveTier(t *testing.T) {
	m := testCostModel()

	analysis := m.Estimate(TierArchive, 500000)

	// 500000 records * 2KB / 1e6 = 1GB scanned.
	require.InDelta(t, 0.0007, analysis.DataStorageCost, 1e-9)
	require.InDelta(t, 0.002, analysis.QueryingCost, 1e-9)
	require.InDelta(t, 0.0027, analysis.TotalCost, 1e-9)
}

func TestTotalCostIsRoundedSum(t *testing.T) {
	m := testCostModel()

	for _, records := range []int{0, 1, 7, 999, 123456, 98765432} {
		for _, tier := range []Tier{TierHot, TierArchive} {
			analysis := m.Estimate(tier, records)

			require.GreaterOrEqual(t, analysis.DataStorageCost, 0.0)
			require.GreaterOrEqual(t, analysis.QueryingCost, 0.0)

			sum := math.Round((analysis.DataStorageCost+analysis.QueryingCost)*1e6) / 1e6
			require.Equal(t, sum, analysis.TotalCost, "tier=%s records=%d", tier, records)
		}
	}
}

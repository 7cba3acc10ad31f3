package analytics

import "math"

// CostAnalysis estimates what answering the query itself cost, split into
// the storage-access and querying components. All values are non-negative
// and TotalCost is the rounded sum of the other two.
type CostAnalysis struct {
	DataStorageCost float64 `json:"dataStorageCost"`
	QueryingCost    float64 `json:"queryingCost"`
	TotalCost       float64 `json:"totalCost"`
}

// CostModel prices a query deterministically from the record count and the
// tier it was served from. Every rate is injected configuration.
type CostModel struct {
	RecordsPerBillingUnit int
	UnitReadCost          float64
	StorageAccessRate     float64
	SelectQueryRate       float64
	AvgRecordSizeKB       float64
}

func (m CostModel) Estimate(tier Tier, totalRecords int) CostAnalysis {
	var analysis CostAnalysis

	switch tier {
	case TierHot:
		perUnit := m.RecordsPerBillingUnit
		if perUnit <= 0 {
			perUnit = 1
		}
		units := math.Ceil(float64(totalRecords) / float64(perUnit))
		analysis.DataStorageCost = round6(units * m.UnitReadCost)
		analysis.QueryingCost = 0
	case TierArchive:
		scannedGB := float64(totalRecords) * m.AvgRecordSizeKB / 1e6
		analysis.DataStorageCost = round6(scannedGB * m.StorageAccessRate)
		analysis.QueryingCost = round6(scannedGB * m.SelectQueryRate)
	}

	analysis.TotalCost = round6(analysis.DataStorageCost + analysis.QueryingCost)

	return analysis
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

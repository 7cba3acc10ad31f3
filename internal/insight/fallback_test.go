package insight

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/contentpulse/backend/internal/analytics"
)

func sampleData() analytics.ProcessedData {
	return analytics.ProcessedData{
		Topics: analytics.TopicAggregates{
			Total:      4,
			ByCategory: map[string]int{"energy": 3, "tech": 1},
			SearchVolumeStats: analytics.SearchVolumeStats{
				Total: 600, Average: 150, Median: 150, Max: 200, Min: 100,
			},
			ConversionRates: analytics.ConversionRates{ContentGenerated: 25, MediaCreated: 25},
		},
		Prompts: analytics.PromptAggregates{
			Total:               2,
			AverageConfidence:   75,
			QualityDistribution: analytics.QualityDistribution{High: 0, Medium: 1, Low: 1},
		},
		Media: analytics.MediaAggregates{
			Total:      2,
			TotalCost:  0.16,
			TotalViews: 900,
			AverageCTR: 1.5,
			ByCategory: map[string]analytics.CategoryPerformance{
				"energy": {Count: 1, TotalViews: 700, AverageViews: 700, TotalCost: 0.08},
				"tech":   {Count: 1, TotalViews: 200, AverageViews: 200, TotalCost: 0.08},
			},
			ROI: analytics.ROI{CostPerView: 0.00017, CostPerHour: 0.9, RevenueEstimate: 0.9},
		},
	}
}

func TestFallbackCardinalities(t *testing.T) {
	result := NewFallback().Generate(sampleData())

	require.Len(t, result.KeyInsights, keyInsightCount)
	for _, s := range result.KeyInsights {
		require.NotEmpty(t, s)
	}

	require.GreaterOrEqual(t, len(result.Recommendations), minRecommendations)
	require.LessOrEqual(t, len(result.Recommendations), maxRecommendations)
	for _, s := range result.Recommendations {
		require.NotEmpty(t, s)
	}

	require.NotEmpty(t, result.CategoryAnalysis.Reasoning)
	require.NotEmpty(t, result.CostOptimization.CurrentEfficiency)
	require.NotEmpty(t, result.CostOptimization.Improvements)
}

func TestFallbackIsDeterministic(t *testing.T) {
	f := NewFallback()
	data := sampleData()

	first := f.Generate(data)
	second := f.Generate(data)

	require.Equal(t, first, second)
}

func TestFallbackCategoryRanking(t *testing.T) {
	result := NewFallback().Generate(sampleData())

	require.Equal(t, "energy", result.CategoryAnalysis.BestPerforming)
	require.Equal(t, "tech", result.CategoryAnalysis.NeedsImprovement)
}

func TestFallbackRanksTopicsWhenNoMedia(t *testing.T) {
	data := sampleData()
	data.Media = analytics.MediaAggregates{ByCategory: map[string]analytics.CategoryPerformance{}}

	result := NewFallback().Generate(data)

	require.Equal(t, "energy", result.CategoryAnalysis.BestPerforming)
	require.Equal(t, "tech", result.CategoryAnalysis.NeedsImprovement)
}

func TestFallbackHandlesEmptyData(t *testing.T) {
	result := NewFallback().Generate(analytics.ProcessedData{})

	require.Len(t, result.KeyInsights, keyInsightCount)
	require.GreaterOrEqual(t, len(result.Recommendations), minRecommendations)
	require.Equal(t, "none", result.CategoryAnalysis.BestPerforming)
}

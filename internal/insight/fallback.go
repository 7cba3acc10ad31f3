package insight

import (
	"fmt"
	"sort"

	"github.com/contentpulse/backend/internal/analytics"
)

// Fallback builds insight text from templates over the aggregates alone. No
// network, no randomness: the same ProcessedData always yields the same text.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

func (f *Fallback) Generate(data analytics.ProcessedData) *Result {
	best, worst := rankCategories(data)

	return &Result{
		KeyInsights:     f.keyInsights(data),
		Recommendations: f.recommendations(data, best),
		CategoryAnalysis: CategoryAnalysis{
			BestPerforming:   best,
			NeedsImprovement: worst,
			Reasoning: fmt.Sprintf(
				"Ranked by total views per category; %q leads while %q trails the rest.",
				best, worst),
		},
		CostOptimization: f.costOptimization(data),
	}
}

func (f *Fallback) keyInsights(data analytics.ProcessedData) []string {
	topicInsight := "No topics were discovered in the selected period."
	if data.Topics.Total > 0 {
		topicInsight = fmt.Sprintf(
			"Discovered %d topics across %d categories with an average search volume of %.0f.",
			data.Topics.Total, len(data.Topics.ByCategory), data.Topics.SearchVolumeStats.Average)
	}

	promptInsight := "No prompts were generated in the selected period."
	if data.Prompts.Total > 0 {
		promptInsight = fmt.Sprintf(
			"Generated %d prompts at %.1f average confidence; %d rated high quality.",
			data.Prompts.Total, data.Prompts.AverageConfidence, data.Prompts.QualityDistribution.High)
	}

	mediaInsight := "No media was published in the selected period."
	if data.Media.Total > 0 {
		mediaInsight = fmt.Sprintf(
			"Published %d media items earning %d views at a total cost of $%.2f.",
			data.Media.Total, data.Media.TotalViews, data.Media.TotalCost)
	}

	return []string{topicInsight, promptInsight, mediaInsight}
}

func (f *Fallback) recommendations(data analytics.ProcessedData, best string) []string {
	recs := []string{}

	if data.Topics.Total > 0 && data.Topics.ConversionRates.ContentGenerated < 50 {
		recs = append(recs, fmt.Sprintf(
			"Only %.0f%% of discovered topics produced content; revisit topic selection criteria.",
			data.Topics.ConversionRates.ContentGenerated))
	}
	if data.Prompts.QualityDistribution.Low > data.Prompts.QualityDistribution.High {
		recs = append(recs,
			"Low-confidence prompts outnumber high-confidence ones; tune the prompt generation settings.")
	}
	if data.Media.ROI.CostPerView > 0.001 {
		recs = append(recs, fmt.Sprintf(
			"Cost per view is $%.5f; shift spend toward categories with stronger view counts.",
			data.Media.ROI.CostPerView))
	}
	if data.Media.Total > 0 && data.Media.AverageCTR < 2 {
		recs = append(recs, fmt.Sprintf(
			"Click-through rate averages %.2f%%; test alternative titles and thumbnails.",
			data.Media.AverageCTR))
	}

	// Always-applicable suggestions keep the list at three or more.
	recs = append(recs,
		fmt.Sprintf("Increase publishing volume in the best performing category (%q).", best),
		"Compare per-day topic discovery against publishing cadence to find backlog buildup.",
		"Re-run this report weekly to track conversion and ROI trends.")

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func (f *Fallback) costOptimization(data analytics.ProcessedData) CostOptimization {
	efficiency := "No media spend recorded in the selected period."
	if data.Media.Total > 0 {
		efficiency = fmt.Sprintf("$%.5f per view and $%.2f per watch-hour.",
			data.Media.ROI.CostPerView, data.Media.ROI.CostPerHour)
	}

	return CostOptimization{
		CurrentEfficiency: efficiency,
		Improvements: []string{
			"Batch media generation for adjacent topics to amortize fixed costs.",
			"Archive low-engagement categories sooner to cut hot storage reads.",
		},
	}
}

// rankCategories orders media categories by total views, breaking ties
// alphabetically so the output stays deterministic. Topic categories back
// the ranking when no media exists.
func rankCategories(data analytics.ProcessedData) (best, worst string) {
	if len(data.Media.ByCategory) > 0 {
		names := make([]string, 0, len(data.Media.ByCategory))
		for name := range data.Media.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)

		best, worst = names[0], names[0]
		for _, name := range names {
			if data.Media.ByCategory[name].TotalViews > data.Media.ByCategory[best].TotalViews {
				best = name
			}
			if data.Media.ByCategory[name].TotalViews < data.Media.ByCategory[worst].TotalViews {
				worst = name
			}
		}
		return best, worst
	}

	if len(data.Topics.ByCategory) > 0 {
		names := make([]string, 0, len(data.Topics.ByCategory))
		for name := range data.Topics.ByCategory {
			names = append(names, name)
		}
		sort.Strings(names)

		best, worst = names[0], names[0]
		for _, name := range names {
			if data.Topics.ByCategory[name] > data.Topics.ByCategory[best] {
				best = name
			}
			if data.Topics.ByCategory[name] < data.Topics.ByCategory[worst] {
				worst = name
			}
		}
		return best, worst
	}

	return "none", "none"
}

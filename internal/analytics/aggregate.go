package analytics

import (
	"sort"

	"github.com/contentpulse/backend/internal/records"
)

// Confidence bucket boundaries: strictly above 80 is high, strictly above 60
// and at most 80 is medium, the rest is low.
const (
	confidenceHighFloor   = 80.0
	confidenceMediumFloor = 60.0
)

type ProcessedData struct {
	Topics       TopicAggregates  `json:"topics"`
	Prompts      PromptAggregates `json:"prompts"`
	Media        MediaAggregates  `json:"media"`
	Correlations Correlations     `json:"correlations"`
}

type TopicAggregates struct {
	Total             int               `json:"total"`
	ByCategory        map[string]int    `json:"byCategory"`
	ByUrgency         map[string]int    `json:"byUrgency"`
	ByDay             map[string]int    `json:"byDay"`
	SearchVolumeStats SearchVolumeStats `json:"searchVolumeStats"`
	ConversionRates   ConversionRates   `json:"conversionRates"`
}

type SearchVolumeStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
	Median  float64 `json:"median"`
	Max     int     `json:"max"`
	Min     int     `json:"min"`
}

// ConversionRates are percentages in [0,100]; an empty topic set yields 0.
type ConversionRates struct {
	ContentGenerated float64 `json:"contentGenerated"`
	MediaCreated     float64 `json:"mediaCreated"`
}

type PromptAggregates struct {
	Total               int                 `json:"total"`
	ByCategory          map[string]int      `json:"byCategory"`
	AverageConfidence   float64             `json:"averageConfidence"`
	QualityDistribution QualityDistribution `json:"qualityDistribution"`
	UsageByPrompt       map[string]int      `json:"usageByPrompt"`
}

type QualityDistribution struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

type MediaAggregates struct {
	Total                 int                            `json:"total"`
	TotalCost             float64                        `json:"totalCost"`
	TotalViews            int                            `json:"totalViews"`
	TotalWatchTimeSeconds float64                        `json:"totalWatchTimeSeconds"`
	AverageCTR            float64                        `json:"averageCTR"`
	ByCategory            map[string]CategoryPerformance `json:"byCategory"`
	ROI                   ROI                            `json:"roi"`
}

type CategoryPerformance struct {
	Count        int     `json:"count"`
	TotalViews   int     `json:"totalViews"`
	AverageViews float64 `json:"averageViews"`
	TotalCost    float64 `json:"totalCost"`
}

// ROI derives per-view and per-hour cost from the media aggregates. The
// revenue estimate multiplies views by a configured CPM constant; it is an
// assumption about monetization, not a measured value.
type ROI struct {
	CostPerView     float64 `json:"costPerView"`
	CostPerHour     float64 `json:"costPerHour"`
	RevenueEstimate float64 `json:"revenueEstimate"`
}

// Correlations is part of the report schema but its computation is a
// pluggable hook; the default hook leaves every field at zero.
type Correlations struct {
	TopicVolumeToViews   float64 `json:"topicVolumeToViews"`
	PromptQualityToViews float64 `json:"promptQualityToViews"`
	CostToEngagement     float64 `json:"costToEngagement"`
}

// CorrelationFunc computes the correlations section from the gathered
// records. DefaultCorrelations is used unless a custom hook is injected.
type CorrelationFunc func(topics []records.TopicRecord, prompts []records.PromptRecord, media []records.MediaRecord) Correlations

func DefaultCorrelations([]records.TopicRecord, []records.PromptRecord, []records.MediaRecord) Correlations {
	return Correlations{}
}

// Aggregator turns raw records into ProcessedData. Pure and stateless apart
// from the injected constants.
type Aggregator struct {
	cpm          float64
	correlations CorrelationFunc
}

func NewAggregator(cpm float64, correlations CorrelationFunc) *Aggregator {
	if correlations == nil {
		correlations = DefaultCorrelations
	}
	return &Aggregator{cpm: cpm, correlations: correlations}
}

func (a *Aggregator) Aggregate(topics []records.TopicRecord, prompts []records.PromptRecord, media []records.MediaRecord) ProcessedData {
	return ProcessedData{
		Topics:       a.aggregateTopics(topics),
		Prompts:      a.aggregatePrompts(prompts),
		Media:        a.aggregateMedia(media),
		Correlations: a.correlations(topics, prompts, media),
	}
}

func (a *Aggregator) aggregateTopics(topics []records.TopicRecord) TopicAggregates {
	agg := TopicAggregates{
		Total:      len(topics),
		ByCategory: map[string]int{},
		ByUrgency:  map[string]int{},
		ByDay:      map[string]int{},
	}

	volumes := make([]int, 0, len(topics))
	contentGenerated := 0
	mediaCreated := 0

	for _, t := range topics {
		agg.ByCategory[t.Category]++
		agg.ByUrgency[string(t.Urgency)]++
		agg.ByDay[t.DiscoveredAt.Format("2006-01-02")]++
		volumes = append(volumes, t.SearchVolume)
		if t.ContentGenerated {
			contentGenerated++
		}
		if t.MediaCreated {
			mediaCreated++
		}
	}

	agg.SearchVolumeStats = volumeStats(volumes)

	if len(topics) > 0 {
		agg.ConversionRates.ContentGenerated = float64(contentGenerated) / float64(len(topics)) * 100
		agg.ConversionRates.MediaCreated = float64(mediaCreated) / float64(len(topics)) * 100
	}

	return agg
}

func (a *Aggregator) aggregatePrompts(prompts []records.PromptRecord) PromptAggregates {
	agg := PromptAggregates{
		Total:         len(prompts),
		ByCategory:    map[string]int{},
		UsageByPrompt: map[string]int{},
	}

	var confidenceSum float64
	for _, p := range prompts {
		agg.ByCategory[p.Category]++
		agg.UsageByPrompt[p.ID] = p.UsageCount
		confidenceSum += p.Confidence

		switch {
		case p.Confidence > confidenceHighFloor:
			agg.QualityDistribution.High++
		case p.Confidence > confidenceMediumFloor:
			agg.QualityDistribution.Medium++
		default:
			agg.QualityDistribution.Low++
		}
	}

	if len(prompts) > 0 {
		agg.AverageConfidence = confidenceSum / float64(len(prompts))
	}

	return agg
}

func (a *Aggregator) aggregateMedia(media []records.MediaRecord) MediaAggregates {
	agg := MediaAggregates{
		Total:      len(media),
		ByCategory: map[string]CategoryPerformance{},
	}

	var ctrSum float64
	for _, m := range media {
		agg.TotalCost += m.Cost
		agg.TotalViews += m.Views
		agg.TotalWatchTimeSeconds += m.WatchTimeSeconds
		ctrSum += m.ClickThroughRate

		perf := agg.ByCategory[m.Category]
		perf.Count++
		perf.TotalViews += m.Views
		perf.TotalCost += m.Cost
		agg.ByCategory[m.Category] = perf
	}

	for category, perf := range agg.ByCategory {
		perf.AverageViews = float64(perf.TotalViews) / float64(perf.Count)
		agg.ByCategory[category] = perf
	}

	if len(media) > 0 {
		agg.AverageCTR = ctrSum / float64(len(media))
	}

	agg.ROI = a.computeROI(agg)

	return agg
}

func (a *Aggregator) computeROI(agg MediaAggregates) ROI {
	roi := ROI{
		RevenueEstimate: float64(agg.TotalViews) * a.cpm,
	}
	if agg.TotalViews > 0 {
		roi.CostPerView = agg.TotalCost / float64(agg.TotalViews)
	}
	if agg.TotalWatchTimeSeconds > 0 {
		roi.CostPerHour = agg.TotalCost / (agg.TotalWatchTimeSeconds / 3600)
	}
	return roi
}

func volumeStats(volumes []int) SearchVolumeStats {
	if len(volumes) == 0 {
		return SearchVolumeStats{}
	}

	sorted := make([]int, len(volumes))
	copy(sorted, volumes)
	sort.Ints(sorted)

	stats := SearchVolumeStats{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
	}
	for _, v := range sorted {
		stats.Total += v
	}
	stats.Average = float64(stats.Total) / float64(len(sorted))
	stats.Median = median(sorted)

	return stats
}

// median of an ascending slice: the middle value for odd counts, the average
// of the two middle values for even counts.
func median(sorted []int) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return float64(sorted[n/2-1]+sorted[n/2]) / 2
}

package report

// buildVisualizations emits the declarative chart and table descriptors for
// a report type. DataRef paths point into the report's data section; no
// rendering happens here.
func buildVisualizations(t ReportType) Visualizations {
	v := Visualizations{
		Charts: []Chart{
			{Type: "bar", Title: "Topics by Category", DataRef: "data.topics.byCategory"},
			{Type: "line", Title: "Topics Discovered per Day", DataRef: "data.topics.byDay"},
		},
		Tables: []Table{
			{Type: "summary", Title: "Search Volume Statistics", DataRef: "data.topics.searchVolumeStats"},
		},
	}

	switch t {
	case TrendAnalysis:
		v.Charts = append(v.Charts,
			Chart{Type: "pie", Title: "Topics by Urgency", DataRef: "data.topics.byUrgency"})
	case PromptPerformance:
		v.Charts = append(v.Charts,
			Chart{Type: "pie", Title: "Prompt Quality Distribution", DataRef: "data.prompts.qualityDistribution"})
		v.Tables = append(v.Tables,
			Table{Type: "ranking", Title: "Prompt Usage", DataRef: "data.prompts.usageByPrompt"})
	case VideoPerformance:
		v.Charts = append(v.Charts,
			Chart{Type: "bar", Title: "Views by Category", DataRef: "data.media.byCategory"})
		v.Tables = append(v.Tables,
			Table{Type: "summary", Title: "Media Totals", DataRef: "data.media"})
	case CostAnalysis:
		v.Tables = append(v.Tables,
			Table{Type: "summary", Title: "Query Cost Breakdown", DataRef: "costAnalysis"})
	case ROIAnalysis:
		v.Charts = append(v.Charts,
			Chart{Type: "bar", Title: "Cost vs Views by Category", DataRef: "data.media.byCategory"})
		v.Tables = append(v.Tables,
			Table{Type: "summary", Title: "ROI Metrics", DataRef: "data.media.roi"})
	case ContentEffectiveness:
		v.Charts = append(v.Charts,
			Chart{Type: "gauge", Title: "Conversion Rates", DataRef: "data.topics.conversionRates"})
		v.Tables = append(v.Tables,
			Table{Type: "ranking", Title: "Category Performance", DataRef: "data.media.byCategory"})
	}

	return v
}

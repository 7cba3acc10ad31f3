package report

import (
	"fmt"
	"time"

	"github.com/contentpulse/backend/internal/analytics"
	"github.com/contentpulse/backend/internal/insight"
	"github.com/contentpulse/backend/internal/records"
)

type ReportType string

const (
	TrendAnalysis        ReportType = "trend-analysis"
	PromptPerformance    ReportType = "prompt-performance"
	VideoPerformance     ReportType = "video-performance"
	CostAnalysis         ReportType = "cost-analysis"
	ROIAnalysis          ReportType = "roi-analysis"
	ContentEffectiveness ReportType = "content-effectiveness"
)

func (t ReportType) Valid() bool {
	switch t {
	case TrendAnalysis, PromptPerformance, VideoPerformance, CostAnalysis, ROIAnalysis, ContentEffectiveness:
		return true
	}
	return false
}

type GroupBy string

const (
	GroupByDay      GroupBy = "day"
	GroupByWeek     GroupBy = "week"
	GroupByMonth    GroupBy = "month"
	GroupByCategory GroupBy = "category"
	GroupByUrgency  GroupBy = "urgency"
)

func (g GroupBy) Valid() bool {
	switch g {
	case GroupByDay, GroupByWeek, GroupByMonth, GroupByCategory, GroupByUrgency:
		return true
	}
	return false
}

type AnalyticsQuery struct {
	ReportType ReportType        `json:"reportType"`
	DateRange  records.DateRange `json:"dateRange"`
	Filters    records.Filters   `json:"filters,omitempty"`
	GroupBy    GroupBy           `json:"groupBy,omitempty"`
	Metrics    []string          `json:"metrics,omitempty"`
}

// ConfigurationError marks a query that must be rejected before any I/O.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid analytics query: " + e.Reason
}

func (q AnalyticsQuery) Validate() error {
	if !q.ReportType.Valid() {
		return &ConfigurationError{Reason: fmt.Sprintf("unknown report type %q", q.ReportType)}
	}
	if q.DateRange.Start.IsZero() || q.DateRange.End.IsZero() {
		return &ConfigurationError{Reason: "date range is required"}
	}
	if q.DateRange.Start.After(q.DateRange.End) {
		return &ConfigurationError{Reason: "start date is after end date"}
	}
	if q.GroupBy != "" && !q.GroupBy.Valid() {
		return &ConfigurationError{Reason: fmt.Sprintf("unknown groupBy %q", q.GroupBy)}
	}
	return nil
}

type Summary struct {
	TotalRecords     int                      `json:"totalRecords"`
	KeyInsights      []string                 `json:"keyInsights"`
	Recommendations  []string                 `json:"recommendations"`
	CategoryAnalysis insight.CategoryAnalysis `json:"categoryAnalysis"`
	CostOptimization insight.CostOptimization `json:"costOptimization"`
}

// Chart and Table are declarative descriptors; rendering happens elsewhere.
type Chart struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	DataRef string `json:"dataRef"`
}

type Table struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	DataRef string `json:"dataRef"`
}

type Visualizations struct {
	Charts []Chart `json:"charts"`
	Tables []Table `json:"tables"`
}

// AnalyticsReport is the immutable artifact of one generateReport call.
// ReportID derives from the generation instant and the report type, so
// re-running an identical query produces a distinct report.
type AnalyticsReport struct {
	ReportID         string                  `json:"reportId"`
	ReportType       ReportType              `json:"reportType"`
	GeneratedAt      time.Time               `json:"generatedAt"`
	DateRange        records.DateRange       `json:"dateRange"`
	Tier             analytics.Tier          `json:"tier"`
	Partial          bool                    `json:"partial,omitempty"`
	DegradedEntities []string                `json:"degradedEntities,omitempty"`
	Summary          Summary                 `json:"summary"`
	Data             analytics.ProcessedData `json:"data"`
	Visualizations   Visualizations          `json:"visualizations"`
	CostAnalysis     analytics.CostAnalysis  `json:"costAnalysis"`
}

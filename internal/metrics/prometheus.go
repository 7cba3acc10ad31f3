package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contentpulse_report_duration_seconds",
			Help:    "Report generation duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"report_type"},
	)

	ReportTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentpulse_report_total",
			Help: "Total number of reports generated",
		},
		[]string{"status"},
	)

	TierSelected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentpulse_tier_selected_total",
			Help: "Storage tier chosen per report query",
		},
		[]string{"tier"},
	)

	RecordsGathered = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contentpulse_records_gathered",
			Help:    "Records returned per entity gather",
			Buckets: []float64{0, 10, 100, 1000, 10000, 100000},
		},
		[]string{"entity"},
	)

	GatherFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentpulse_gather_failures_total",
			Help: "Entity gathers degraded to an empty result",
		},
		[]string{"entity", "tier"},
	)

	ArchiveLinesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contentpulse_archive_lines_skipped_total",
			Help: "Undecodable lines skipped in archive streams",
		},
	)

	InsightFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contentpulse_insight_fallbacks_total",
			Help: "Reports that used the template insight generator",
		},
	)

	QueryCost = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contentpulse_query_cost_total",
			Help: "Accumulated estimated query cost",
		},
		[]string{"tier"},
	)
)

func Init() {
	prometheus.MustRegister(ReportDuration)
	prometheus.MustRegister(ReportTotal)
	prometheus.MustRegister(TierSelected)
	prometheus.MustRegister(RecordsGathered)
	prometheus.MustRegister(GatherFailures)
	prometheus.MustRegister(ArchiveLinesSkipped)
	prometheus.MustRegister(InsightFallbacks)
	prometheus.MustRegister(QueryCost)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/analytics"
	"github.com/contentpulse/backend/internal/insight"
	"github.com/contentpulse/backend/internal/metrics"
	"github.com/contentpulse/backend/internal/records"
	"github.com/contentpulse/backend/pkg/config"
	"github.com/contentpulse/backend/pkg/logger"
)

// Gatherer is one storage tier's read interface. Both tiers gather the three
// entity types independently.
type Gatherer interface {
	GatherTopics(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.TopicRecord, error)
	GatherPrompts(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.PromptRecord, error)
	GatherMedia(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.MediaRecord, error)
}

// HistoryStore persists finished reports for the history endpoint. Writes
// are best-effort and never fail a report.
type HistoryStore interface {
	SaveReport(report *AnalyticsReport) error
}

// ProgressFunc observes pipeline stages as they complete.
type ProgressFunc func(stage string)

type Engine struct {
	hot        Gatherer
	archive    Gatherer
	aggregator *analytics.Aggregator
	costModel  analytics.CostModel
	insights   *insight.Adapter
	history    HistoryStore
	cfg        config.AnalyticsConfig
}

// NewEngine wires the pipeline. history may be nil; correlations nil means
// the zero-valued default hook.
func NewEngine(hot, archive Gatherer, insights *insight.Adapter, history HistoryStore, correlations analytics.CorrelationFunc, cfg config.AnalyticsConfig) *Engine {
	return &Engine{
		hot:        hot,
		archive:    archive,
		aggregator: analytics.NewAggregator(cfg.CPMConstant, correlations),
		costModel: analytics.CostModel{
			RecordsPerBillingUnit: cfg.RecordsPerBillingUnit,
			UnitReadCost:          cfg.UnitReadCost,
			StorageAccessRate:     cfg.StorageAccessRate,
			SelectQueryRate:       cfg.SelectQueryRate,
			AvgRecordSizeKB:       cfg.AvgRecordSizeKB,
		},
		insights: insights,
		history:  history,
		cfg:      cfg,
	}
}

func (e *Engine) GenerateReport(ctx context.Context, q AnalyticsQuery) (*AnalyticsReport, error) {
	return e.GenerateReportWithProgress(ctx, q, nil)
}

// GenerateReportWithProgress runs the single-pass pipeline: route, gather,
// aggregate, synthesize, cost, assemble. Only query validation can reject
// the request; every later failure degrades into a still-valid report.
func (e *Engine) GenerateReportWithProgress(ctx context.Context, q AnalyticsQuery, progress ProgressFunc) (*AnalyticsReport, error) {
	startTime := time.Now()

	if err := q.Validate(); err != nil {
		metrics.ReportTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	if e.cfg.QueryTimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.QueryTimeoutSec)*time.Second)
		defer cancel()
	}

	executionID := uuid.New().String()

	tier := analytics.SelectTier(q.DateRange, e.cfg.HotColdThresholdDays)
	metrics.TierSelected.WithLabelValues(string(tier)).Inc()
	step(progress, "routed")

	logger.Info("Generating report",
		zap.String("execution_id", executionID),
		zap.String("report_type", string(q.ReportType)),
		zap.String("tier", string(tier)),
		zap.Int("span_days", analytics.SpanDays(q.DateRange)),
	)

	topics, prompts, media, degraded := e.gather(ctx, tier, q)
	step(progress, "gathered")

	data := e.aggregator.Aggregate(topics, prompts, media)
	step(progress, "aggregated")

	result := e.insights.Synthesize(ctx, data)
	step(progress, "insighted")

	totalRecords := len(topics) + len(prompts) + len(media)
	costs := e.costModel.Estimate(tier, totalRecords)
	metrics.QueryCost.WithLabelValues(string(tier)).Add(costs.TotalCost)
	step(progress, "costed")

	generatedAt := time.Now().UTC()
	rep := &AnalyticsReport{
		ReportID:    fmt.Sprintf("report_%d_%s", generatedAt.UnixMilli(), q.ReportType),
		ReportType:  q.ReportType,
		GeneratedAt: generatedAt,
		DateRange:   q.DateRange,
		Tier:        tier,
		Summary: Summary{
			TotalRecords:     totalRecords,
			KeyInsights:      result.KeyInsights,
			Recommendations:  result.Recommendations,
			CategoryAnalysis: result.CategoryAnalysis,
			CostOptimization: result.CostOptimization,
		},
		Data:           data,
		Visualizations: buildVisualizations(q.ReportType),
		CostAnalysis:   costs,
	}

	if e.cfg.MarkPartialReports && len(degraded) > 0 {
		rep.Partial = true
		rep.DegradedEntities = degraded
	}
	step(progress, "assembled")

	if e.history != nil {
		if err := e.history.SaveReport(rep); err != nil {
			logger.Warn("Failed to persist report history", zap.Error(err))
		}
	}

	metrics.ReportTotal.WithLabelValues("success").Inc()
	metrics.ReportDuration.WithLabelValues(string(q.ReportType)).Observe(time.Since(startTime).Seconds())

	logger.Info("Report generated",
		zap.String("execution_id", executionID),
		zap.String("report_id", rep.ReportID),
		zap.Int("total_records", totalRecords),
		zap.Float64("total_cost", costs.TotalCost),
		zap.Int("degraded_entities", len(degraded)),
	)

	return rep, nil
}

// gather fetches the three entity types concurrently from the chosen tier
// and joins before returning. A failed gather becomes an empty result and a
// degraded-entity note; there are no retries.
func (e *Engine) gather(ctx context.Context, tier analytics.Tier, q AnalyticsQuery) ([]records.TopicRecord, []records.PromptRecord, []records.MediaRecord, []string) {
	g := e.hot
	if tier == analytics.TierArchive {
		g = e.archive
	}

	var (
		topics  []records.TopicRecord
		prompts []records.PromptRecord
		media   []records.MediaRecord

		mu       sync.Mutex
		degraded []string
	)

	fail := func(entity records.EntityType, err error) {
		metrics.GatherFailures.WithLabelValues(string(entity), string(tier)).Inc()
		logger.Warn("Gather failed, continuing with empty result",
			zap.String("entity", string(entity)),
			zap.String("tier", string(tier)),
			zap.Error(err),
		)
		mu.Lock()
		degraded = append(degraded, string(entity))
		mu.Unlock()
	}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		result, err := g.GatherTopics(ctx, q.DateRange, q.Filters)
		if err != nil {
			fail(records.EntityTopics, err)
			return
		}
		topics = result
		metrics.RecordsGathered.WithLabelValues(string(records.EntityTopics)).Observe(float64(len(result)))
	}()

	go func() {
		defer wg.Done()
		result, err := g.GatherPrompts(ctx, q.DateRange, q.Filters)
		if err != nil {
			fail(records.EntityPrompts, err)
			return
		}
		prompts = result
		metrics.RecordsGathered.WithLabelValues(string(records.EntityPrompts)).Observe(float64(len(result)))
	}()

	go func() {
		defer wg.Done()
		result, err := g.GatherMedia(ctx, q.DateRange, q.Filters)
		if err != nil {
			fail(records.EntityMedia, err)
			return
		}
		media = result
		metrics.RecordsGathered.WithLabelValues(string(records.EntityMedia)).Observe(float64(len(result)))
	}()

	wg.Wait()

	if topics == nil {
		topics = []records.TopicRecord{}
	}
	if prompts == nil {
		prompts = []records.PromptRecord{}
	}
	if media == nil {
		media = []records.MediaRecord{}
	}

	return topics, prompts, media, degraded
}

func step(progress ProgressFunc, stage string) {
	if progress != nil {
		progress(stage)
	}
}

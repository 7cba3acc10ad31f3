package report

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contentpulse/backend/internal/analytics"
	"github.com/contentpulse/backend/internal/insight"
	"github.com/contentpulse/backend/internal/records"
	"github.com/contentpulse/backend/pkg/config"
)

type fakeGatherer struct {
	mu    sync.Mutex
	calls int

	topics  []records.TopicRecord
	prompts []records.PromptRecord
	media   []records.MediaRecord

	topicsErr  error
	promptsErr error
	mediaErr   error
}

func (f *fakeGatherer) bump() {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
}

func (f *fakeGatherer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeGatherer) GatherTopics(ctx context.Context, dr records.DateRange, _ records.Filters) ([]records.TopicRecord, error) {
	f.bump()
	return f.topics, f.topicsErr
}

func (f *fakeGatherer) GatherPrompts(ctx context.Context, dr records.DateRange, _ records.Filters) ([]records.PromptRecord, error) {
	f.bump()
	return f.prompts, f.promptsErr
}

func (f *fakeGatherer) GatherMedia(ctx context.Context, dr records.DateRange, _ records.Filters) ([]records.MediaRecord, error) {
	f.bump()
	return f.media, f.mediaErr
}

type fakeHistory struct {
	mu    sync.Mutex
	saved []*AnalyticsReport
	err   error
}

func (h *fakeHistory) SaveReport(rep *AnalyticsReport) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.saved = append(h.saved, rep)
	return nil
}

type fakeSynthesizer struct {
	result *insight.Result
	err    error
}

func (s *fakeSynthesizer) Synthesize(ctx context.Context, _ analytics.ProcessedData) (*insight.Result, error) {
	return s.result, s.err
}

func testConfig() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		HotColdThresholdDays:  7,
		RecordsPerBillingUnit: 1000,
		UnitReadCost:          0.00025,
		StorageAccessRate:     0.0007,
		SelectQueryRate:       0.002,
		AvgRecordSizeKB:       2.0,
		CPMConstant:           0.001,
	}
}

func hotRange() records.DateRange {
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	return records.DateRange{Start: end.AddDate(0, 0, -3), End: end}
}

func archiveRange() records.DateRange {
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	return records.DateRange{Start: end.AddDate(0, 0, -30), End: end}
}

func populatedGatherer() *fakeGatherer {
	return &fakeGatherer{
		topics: []records.TopicRecord{
			{ID: "t1", Category: "energy", SearchVolume: 100, Urgency: records.UrgencyHigh},
			{ID: "t2", Category: "tech", SearchVolume: 200, Urgency: records.UrgencyLow},
		},
		prompts: []records.PromptRecord{{ID: "p1", Category: "energy", Confidence: 85}},
		media:   []records.MediaRecord{{ID: "m1", Category: "energy", Views: 500, Cost: 0.08}},
	}
}

func TestGenerateReportHotTier(t *testing.T) {
	hot := populatedGatherer()
	archive := &fakeGatherer{}
	history := &fakeHistory{}
	engine := NewEngine(hot, archive, insight.NewAdapter(nil, nil), history, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)

	require.Equal(t, analytics.TierHot, rep.Tier)
	require.Equal(t, 3, hot.callCount())
	require.Zero(t, archive.callCount())

	require.Equal(t, TrendAnalysis, rep.ReportType)
	require.Contains(t, rep.ReportID, "_trend-analysis")
	require.Equal(t, 4, rep.Summary.TotalRecords)
	require.False(t, rep.Partial)
	require.Empty(t, rep.DegradedEntities)

	// 4 records round up to one billing unit.
	require.InDelta(t, 0.00025, rep.CostAnalysis.DataStorageCost, 1e-9)
	require.InDelta(t, 0.00025, rep.CostAnalysis.TotalCost, 1e-9)
	require.Len(t, rep.Summary.KeyInsights, 3)
	require.NotEmpty(t, rep.Summary.Recommendations)
	require.NotEmpty(t, rep.Visualizations.Charts)
	require.NotEmpty(t, rep.Visualizations.Tables)

	require.Len(t, history.saved, 1)
	require.Equal(t, rep.ReportID, history.saved[0].ReportID)
}

func TestGenerateReportRoutesToArchive(t *testing.T) {
	hot := &fakeGatherer{}
	archive := populatedGatherer()
	engine := NewEngine(hot, archive, insight.NewAdapter(nil, nil), nil, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: CostAnalysis,
		DateRange:  archiveRange(),
	})
	require.NoError(t, err)

	require.Equal(t, analytics.TierArchive, rep.Tier)
	require.Equal(t, 3, archive.callCount())
	require.Zero(t, hot.callCount())
}

func TestGenerateReportRejectsInvalidQueryBeforeGathering(t *testing.T) {
	hot := &fakeGatherer{}
	archive := &fakeGatherer{}
	engine := NewEngine(hot, archive, insight.NewAdapter(nil, nil), nil, nil, testConfig())

	tests := []struct {
		name  string
		query AnalyticsQuery
	}{
		{"unknown report type", AnalyticsQuery{ReportType: "pivot-table", DateRange: hotRange()}},
		{"missing date range", AnalyticsQuery{ReportType: TrendAnalysis}},
		{"inverted date range", AnalyticsQuery{
			ReportType: TrendAnalysis,
			DateRange:  records.DateRange{Start: hotRange().End, End: hotRange().Start},
		}},
		{"unknown groupBy", AnalyticsQuery{ReportType: TrendAnalysis, DateRange: hotRange(), GroupBy: "hour"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.GenerateReport(context.Background(), tt.query)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
		})
	}

	require.Zero(t, hot.callCount())
	require.Zero(t, archive.callCount())
}

func TestGenerateReportDegradesFailedEntity(t *testing.T) {
	hot := populatedGatherer()
	hot.topicsErr = errors.New("connection refused")

	cfg := testConfig()
	cfg.MarkPartialReports = true
	engine := NewEngine(hot, &fakeGatherer{}, insight.NewAdapter(nil, nil), nil, nil, cfg)

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)

	require.True(t, rep.Partial)
	require.Equal(t, []string{"topics"}, rep.DegradedEntities)
	require.Zero(t, rep.Data.Topics.Total)
	require.Equal(t, 2, rep.Summary.TotalRecords)
}

func TestGenerateReportPartialFlagOffByDefault(t *testing.T) {
	hot := populatedGatherer()
	hot.mediaErr = errors.New("timeout")
	engine := NewEngine(hot, &fakeGatherer{}, insight.NewAdapter(nil, nil), nil, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)

	require.False(t, rep.Partial)
	require.Empty(t, rep.DegradedEntities)
	require.Zero(t, rep.Data.Media.Total)
}

func TestGenerateReportSucceedsWhenHistorySaveFails(t *testing.T) {
	history := &fakeHistory{err: errors.New("disk full")}
	engine := NewEngine(populatedGatherer(), &fakeGatherer{}, insight.NewAdapter(nil, nil), history, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)
	require.NotNil(t, rep)
}

func TestGenerateReportUsesPrimarySynthesizer(t *testing.T) {
	primary := &fakeSynthesizer{result: &insight.Result{
		KeyInsights:     []string{"one", "two", "three"},
		Recommendations: []string{"a", "b", "c"},
	}}
	engine := NewEngine(populatedGatherer(), &fakeGatherer{}, insight.NewAdapter(primary, nil), nil, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "three"}, rep.Summary.KeyInsights)
}

func TestGenerateReportFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeSynthesizer{err: errors.New("model unavailable")}
	engine := NewEngine(populatedGatherer(), &fakeGatherer{}, insight.NewAdapter(primary, nil), nil, nil, testConfig())

	rep, err := engine.GenerateReport(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	})
	require.NoError(t, err)
	require.Len(t, rep.Summary.KeyInsights, 3)
	require.GreaterOrEqual(t, len(rep.Summary.Recommendations), 3)
}

func TestGenerateReportDistinctIDsPerRun(t *testing.T) {
	engine := NewEngine(populatedGatherer(), &fakeGatherer{}, insight.NewAdapter(nil, nil), nil, nil, testConfig())
	query := AnalyticsQuery{ReportType: TrendAnalysis, DateRange: hotRange()}

	first, err := engine.GenerateReport(context.Background(), query)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := engine.GenerateReport(context.Background(), query)
	require.NoError(t, err)

	require.NotEqual(t, first.ReportID, second.ReportID)
}

func TestGenerateReportWithProgressReportsStages(t *testing.T) {
	engine := NewEngine(populatedGatherer(), &fakeGatherer{}, insight.NewAdapter(nil, nil), nil, nil, testConfig())

	var stages []string
	_, err := engine.GenerateReportWithProgress(context.Background(), AnalyticsQuery{
		ReportType: TrendAnalysis,
		DateRange:  hotRange(),
	}, func(stage string) {
		stages = append(stages, stage)
	})
	require.NoError(t, err)

	require.Equal(t, []string{"routed", "gathered", "aggregated", "insighted", "costed", "assembled"}, stages)
}

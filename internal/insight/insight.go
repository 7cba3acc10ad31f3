// Package insight turns aggregated analytics into narrative text. The
// primary synthesizer is an external model; the adapter guarantees a result
// by falling back to a local template generator whenever the primary fails.
package insight

import (
	"context"

	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/analytics"
	"github.com/contentpulse/backend/internal/metrics"
	"github.com/contentpulse/backend/pkg/logger"
)

type Result struct {
	KeyInsights      []string         `json:"keyInsights"`
	Recommendations  []string         `json:"recommendations"`
	CategoryAnalysis CategoryAnalysis `json:"categoryAnalysis"`
	CostOptimization CostOptimization `json:"costOptimization"`
}

type CategoryAnalysis struct {
	BestPerforming   string `json:"bestPerforming"`
	NeedsImprovement string `json:"needsImprovement"`
	Reasoning        string `json:"reasoning"`
}

type CostOptimization struct {
	CurrentEfficiency string   `json:"currentEfficiency"`
	Improvements      []string `json:"improvements"`
}

// Synthesizer produces insight text for one report's aggregates.
type Synthesizer interface {
	Synthesize(ctx context.Context, data analytics.ProcessedData) (*Result, error)
}

// Adapter wraps the primary synthesizer with the deterministic fallback so
// callers always receive a usable result. A nil primary means template-only
// operation.
type Adapter struct {
	primary  Synthesizer
	fallback *Fallback
}

func NewAdapter(primary Synthesizer, fallback *Fallback) *Adapter {
	if fallback == nil {
		fallback = NewFallback()
	}
	return &Adapter{primary: primary, fallback: fallback}
}

func (a *Adapter) Synthesize(ctx context.Context, data analytics.ProcessedData) *Result {
	if a.primary != nil {
		result, err := a.primary.Synthesize(ctx, data)
		if err == nil {
			return result
		}
		logger.Warn("Insight synthesis failed, using template fallback", zap.Error(err))
	}

	metrics.InsightFallbacks.Inc()
	return a.fallback.Generate(data)
}

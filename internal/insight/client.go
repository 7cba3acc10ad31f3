package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/analytics"
	"github.com/contentpulse/backend/pkg/circuitbreaker"
	"github.com/contentpulse/backend/pkg/logger"
	"github.com/contentpulse/backend/pkg/retry"
)

const (
	keyInsightCount    = 3
	minRecommendations = 3
	maxRecommendations = 6
)

// Client asks an external model for insight text. It never degrades on its
// own: errors bubble up so the adapter can substitute the fallback.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

func NewClient(apiKey, model string, temperature float32, maxTokens, timeoutSec int) *Client {
	cb := circuitbreaker.New("insight", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:    2,
		InitialDelay:   500 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
		Logger:         logger.GetLogger(),
	}

	if timeoutSec <= 0 {
		timeoutSec = 30
	}

	logger.Info("Insight client initialized", zap.String("model", model))

	return &Client{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     time.Duration(timeoutSec) * time.Second,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *Client) Synthesize(ctx context.Context, data analytics.ProcessedData) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	userPrompt, err := buildPrompt(data)
	if err != nil {
		return nil, err
	}

	var content string

	err = c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model: c.model,
					Messages: []openai.ChatCompletionMessage{
						{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
						{Role: openai.ChatMessageRoleUser, Content: userPrompt},
					},
					Temperature: c.temperature,
					MaxTokens:   c.maxTokens,
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}
			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("Insight completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			content = resp.Choices[0].Message.Content
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return ParseResult(content)
}

const systemPrompt = `You are a content analytics expert. Given aggregated statistics
about discovered topics, generated prompts and published media, produce a JSON object:

{
  "keyInsights": [exactly 3 short observations],
  "recommendations": [3 to 6 actionable suggestions],
  "categoryAnalysis": {"bestPerforming": "...", "needsImprovement": "...", "reasoning": "..."},
  "costOptimization": {"currentEfficiency": "...", "improvements": ["..."]}
}

Base every statement ONLY on the provided numbers. Return JSON only.`

func buildPrompt(data analytics.ProcessedData) (string, error) {
	summary, err := json.Marshal(map[string]interface{}{
		"topics": map[string]interface{}{
			"total":             data.Topics.Total,
			"byCategory":        data.Topics.ByCategory,
			"byUrgency":         data.Topics.ByUrgency,
			"searchVolumeStats": data.Topics.SearchVolumeStats,
			"conversionRates":   data.Topics.ConversionRates,
		},
		"prompts": map[string]interface{}{
			"total":               data.Prompts.Total,
			"averageConfidence":   data.Prompts.AverageConfidence,
			"qualityDistribution": data.Prompts.QualityDistribution,
		},
		"media": map[string]interface{}{
			"total":      data.Media.Total,
			"totalCost":  data.Media.TotalCost,
			"totalViews": data.Media.TotalViews,
			"averageCTR": data.Media.AverageCTR,
			"byCategory": data.Media.ByCategory,
			"roi":        data.Media.ROI,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal analytics summary: %w", err)
	}

	return fmt.Sprintf("Analyze these content pipeline statistics:\n\n%s", summary), nil
}

// ParseResult extracts the JSON object from a model response and enforces the
// contract cardinalities. Anything off-contract is an error so the caller
// falls back.
func ParseResult(content string) (*Result, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("response contains no JSON object")
	}

	var result Result
	if err := json.Unmarshal([]byte(content[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse insight response: %w", err)
	}

	if len(result.KeyInsights) < keyInsightCount {
		return nil, fmt.Errorf("expected %d key insights, got %d", keyInsightCount, len(result.KeyInsights))
	}
	result.KeyInsights = result.KeyInsights[:keyInsightCount]

	if len(result.Recommendations) < minRecommendations {
		return nil, fmt.Errorf("expected at least %d recommendations, got %d", minRecommendations, len(result.Recommendations))
	}
	if len(result.Recommendations) > maxRecommendations {
		result.Recommendations = result.Recommendations[:maxRecommendations]
	}

	return &result, nil
}

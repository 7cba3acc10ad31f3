package insight

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"keyInsights": ["first", "second", "third"],
	"recommendations": ["a", "b", "c", "d"],
	"categoryAnalysis": {"bestPerforming": "energy", "needsImprovement": "tech", "reasoning": "views"},
	"costOptimization": {"currentEfficiency": "fine", "improvements": ["batch"]}
}`

func TestParseResult(t *testing.T) {
	result, err := ParseResult(validResponse)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "third"}, result.KeyInsights)
	require.Len(t, result.Recommendations, 4)
	require.Equal(t, "energy", result.CategoryAnalysis.BestPerforming)
}

func TestParseResultStripsSurroundingProse(t *testing.T) {
	content := "Here is the analysis you asked for:\n```json\n" + validResponse + "\n```\nLet me know if you need more."

	result, err := ParseResult(content)
	require.NoError(t, err)
	require.Len(t, result.KeyInsights, 3)
}

func TestParseResultTruncatesExcess(t *testing.T) {
	content := `{
		"keyInsights": ["a", "b", "c", "d", "e"],
		"recommendations": ["1", "2", "3", "4", "5", "6", "7", "8"]
	}`

	result, err := ParseResult(content)
	require.NoError(t, err)
	require.Len(t, result.KeyInsights, keyInsightCount)
	require.Len(t, result.Recommendations, maxRecommendations)
}

func TestParseResultRejectsOffContract(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no JSON object", "sorry, I cannot help with that"},
		{"not valid JSON", "{keyInsights: oops}"},
		{"too few insights", `{"keyInsights": ["only one"], "recommendations": ["a", "b", "c"]}`},
		{"too few recommendations", `{"keyInsights": ["a", "b", "c"], "recommendations": ["one"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResult(tt.content)
			require.Error(t, err)
		})
	}
}

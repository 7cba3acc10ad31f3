package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/contentpulse/backend/internal/records"
)

func dateRange(t *testing.T, start, end string) records.DateRange {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	return records.DateRange{Start: s, End: e}
}

func TestSelectTier(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  Tier
	}{
		{"same instant", "2024-03-01T00:00:00Z", "2024-03-01T00:00:00Z", TierHot},
		{"three days", "2024-03-01T00:00:00Z", "2024-03-04T00:00:00Z", TierHot},
		{"exactly seven days", "2024-03-01T00:00:00Z", "2024-03-08T00:00:00Z", TierHot},
		{"seven days and one hour", "2024-03-01T00:00:00Z", "2024-03-08T01:00:00Z", TierArchive},
		{"eight days", "2024-03-01T00:00:00Z", "2024-03-09T00:00:00Z", TierArchive},
		{"thirty days", "2024-03-01T00:00:00Z", "2024-03-31T00:00:00Z", TierArchive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr := dateRange(t, tt.start, tt.end)
			require.Equal(t, tt.want, SelectTier(dr, 7))
		})
	}
}

func TestSelectTierThresholdOverride(t *testing.T) {
	dr := dateRange(t, "2024-03-01T00:00:00Z", "2024-03-15T00:00:00Z")

	require.Equal(t, TierArchive, SelectTier(dr, 7))
	require.Equal(t, TierHot, SelectTier(dr, 14))
}

func TestSpanDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"zero span", "2024-03-01T00:00:00Z", "2024-03-01T00:00:00Z", 0},
		{"partial day rounds up", "2024-03-01T00:00:00Z", "2024-03-01T06:00:00Z", 1},
		{"whole days", "2024-03-01T00:00:00Z", "2024-03-08T00:00:00Z", 7},
		{"whole days plus an hour", "2024-03-01T00:00:00Z", "2024-03-08T01:00:00Z", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SpanDays(dateRange(t, tt.start, tt.end)))
		})
	}
}

package analytics

import (
	"math"

	"github.com/contentpulse/backend/internal/records"
)

// Tier identifies which store a query reads from.
type Tier string

const (
	TierHot     Tier = "hot"
	TierArchive Tier = "archive"
)

// SelectTier routes a query by its date range alone: spans up to and
// including thresholdDays stay on the hot store, anything longer goes to the
// archive. Pure function, no store access.
func SelectTier(dr records.DateRange, thresholdDays int) Tier {
	if SpanDays(dr) <= thresholdDays {
		return TierHot
	}
	return TierArchive
}

// SpanDays is the ceiling of the range length in days. Both ends inclusive,
// so an identical start and end still counts as zero full days.
func SpanDays(dr records.DateRange) int {
	span := dr.End.Sub(dr.Start)
	return int(math.Ceil(span.Hours() / 24))
}

// Package records holds the three operational event types produced by the
// ingestion pipeline, together with the query vocabulary (date ranges and
// filters) shared by both storage tiers. Records are read-only inputs here.
package records

import "time"

type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

type EntityType string

const (
	EntityTopics  EntityType = "topics"
	EntityPrompts EntityType = "prompts"
	EntityMedia   EntityType = "media"
)

type TopicRecord struct {
	ID               string    `json:"id"`
	Keyword          string    `json:"keyword"`
	SearchVolume     int       `json:"searchVolume"`
	Category         string    `json:"category"`
	Urgency          Urgency   `json:"urgency"`
	DiscoveredAt     time.Time `json:"discoveredAt"`
	ContentGenerated bool      `json:"contentGenerated"`
	MediaCreated     bool      `json:"mediaCreated"`
}

type PromptRecord struct {
	ID          string    `json:"id"`
	TopicID     string    `json:"topicId"`
	Category    string    `json:"category"`
	Confidence  float64   `json:"confidence"`
	UsageCount  int       `json:"usageCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}

type MediaRecord struct {
	ID               string    `json:"id"`
	TopicID          string    `json:"topicId"`
	PromptID         string    `json:"promptId"`
	CreatedAt        time.Time `json:"createdAt"`
	Category         string    `json:"category"`
	DurationSeconds  float64   `json:"durationSeconds"`
	Cost             float64   `json:"cost"`
	Views            int       `json:"views"`
	Likes            int       `json:"likes"`
	Comments         int       `json:"comments"`
	ClickThroughRate float64   `json:"clickThroughRate"`
	WatchTimeSeconds float64   `json:"watchTimeSeconds"`
}

// DateRange is inclusive on both ends.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Filters narrows a gather. Category applies to all three entity types;
// urgency and the search-volume bounds apply to topics only.
type Filters struct {
	Category        []string `json:"category,omitempty"`
	Urgency         []string `json:"urgency,omitempty"`
	SearchVolumeMin *int     `json:"searchVolumeMin,omitempty"`
	SearchVolumeMax *int     `json:"searchVolumeMax,omitempty"`
}

func (f Filters) MatchTopic(t TopicRecord) bool {
	if !matchesSet(f.Category, t.Category) {
		return false
	}
	if !matchesSet(f.Urgency, string(t.Urgency)) {
		return false
	}
	if f.SearchVolumeMin != nil && t.SearchVolume < *f.SearchVolumeMin {
		return false
	}
	if f.SearchVolumeMax != nil && t.SearchVolume > *f.SearchVolumeMax {
		return false
	}
	return true
}

func (f Filters) MatchPrompt(p PromptRecord) bool {
	return matchesSet(f.Category, p.Category)
}

func (f Filters) MatchMedia(m MediaRecord) bool {
	return matchesSet(f.Category, m.Category)
}

func matchesSet(allowed []string, value string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

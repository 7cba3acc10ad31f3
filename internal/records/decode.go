package records

import (
	"time"

	"github.com/tidwall/gjson"
)

// The decoders below never fail on a well-formed JSON object: missing or
// malformed numeric fields coerce to 0, missing strings to "". Only input
// that is not a JSON object at all is rejected, so one bad line in a stream
// cannot poison a gather.

func DecodeTopic(data []byte) (TopicRecord, bool) {
	v, ok := parseObject(data)
	if !ok {
		return TopicRecord{}, false
	}
	return TopicRecord{
		ID:               v.Get("id").String(),
		Keyword:          v.Get("keyword").String(),
		SearchVolume:     int(v.Get("searchVolume").Int()),
		Category:         v.Get("category").String(),
		Urgency:          Urgency(v.Get("urgency").String()),
		DiscoveredAt:     parseTimestamp(v.Get("discoveredAt")),
		ContentGenerated: v.Get("contentGenerated").Bool(),
		MediaCreated:     v.Get("mediaCreated").Bool(),
	}, true
}

func DecodePrompt(data []byte) (PromptRecord, bool) {
	v, ok := parseObject(data)
	if !ok {
		return PromptRecord{}, false
	}
	return PromptRecord{
		ID:          v.Get("id").String(),
		TopicID:     v.Get("topicId").String(),
		Category:    v.Get("category").String(),
		Confidence:  v.Get("confidence").Float(),
		UsageCount:  int(v.Get("usageCount").Int()),
		GeneratedAt: parseTimestamp(v.Get("generatedAt")),
	}, true
}

func DecodeMedia(data []byte) (MediaRecord, bool) {
	v, ok := parseObject(data)
	if !ok {
		return MediaRecord{}, false
	}
	return MediaRecord{
		ID:               v.Get("id").String(),
		TopicID:          v.Get("topicId").String(),
		PromptID:         v.Get("promptId").String(),
		CreatedAt:        parseTimestamp(v.Get("createdAt")),
		Category:         v.Get("category").String(),
		DurationSeconds:  v.Get("durationSeconds").Float(),
		Cost:             v.Get("cost").Float(),
		Views:            int(v.Get("views").Int()),
		Likes:            int(v.Get("likes").Int()),
		Comments:         int(v.Get("comments").Int()),
		ClickThroughRate: v.Get("clickThroughRate").Float(),
		WatchTimeSeconds: v.Get("watchTimeSeconds").Float(),
	}, true
}

func parseObject(data []byte) (gjson.Result, bool) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, false
	}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return gjson.Result{}, false
	}
	return v, true
}

func parseTimestamp(v gjson.Result) time.Time {
	if v.Type == gjson.Number {
		return time.Unix(v.Int(), 0).UTC()
	}
	t, err := time.Parse(time.RFC3339, v.String())
	if err != nil {
		return time.Time{}
	}
	return t
}

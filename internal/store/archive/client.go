// Package archive reads the cost-efficient cold store. Queries are pushed
// down as filter expressions so the archive service only streams back
// matching line-delimited JSON records.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/metrics"
	"github.com/contentpulse/backend/internal/records"
	"github.com/contentpulse/backend/pkg/logger"
)

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func NewClient(endpoint, apiKey string, timeoutSec int) *Client {
	if timeoutSec <= 0 {
		timeoutSec = 30
	}

	logger.Info("Archive client initialized", zap.String("endpoint", endpoint))

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
	}
}

func (c *Client) GatherTopics(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.TopicRecord, error) {
	out := []records.TopicRecord{}
	err := c.query(ctx, records.EntityTopics, dr, f, func(line []byte) bool {
		t, ok := records.DecodeTopic(line)
		if ok {
			out = append(out, t)
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GatherPrompts(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.PromptRecord, error) {
	out := []records.PromptRecord{}
	err := c.query(ctx, records.EntityPrompts, dr, f, func(line []byte) bool {
		p, ok := records.DecodePrompt(line)
		if ok {
			out = append(out, p)
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GatherMedia(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.MediaRecord, error) {
	out := []records.MediaRecord{}
	err := c.query(ctx, records.EntityMedia, dr, f, func(line []byte) bool {
		m, ok := records.DecodeMedia(line)
		if ok {
			out = append(out, m)
		}
		return ok
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// query streams the filtered dataset and hands each complete line to decode.
// Lines that fail to decode are skipped and counted, never fatal: one rotted
// record must not sink the rest of the response.
func (c *Client) query(ctx context.Context, entity records.EntityType, dr records.DateRange, f records.Filters, decode func([]byte) bool) error {
	expression := BuildExpression(entity, dr, f)

	payload, err := json.Marshal(map[string]string{
		"expression": expression,
		"format":     "ndjson",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal archive query: %w", err)
	}

	url := fmt.Sprintf("%s/v1/datasets/%s/query", c.endpoint, entity)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create archive request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("archive query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("archive query returned status %d", resp.StatusCode)
	}

	decoder := &lineDecoder{}
	skipped := 0
	buf := make([]byte, 32*1024)

	handle := func(line []byte) {
		if !decode(line) {
			skipped++
		}
	}

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, line := range decoder.Feed(buf[:n]) {
				handle(line)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("failed to read archive stream: %w", readErr)
		}
	}

	if rest := decoder.Flush(); rest != nil {
		handle(rest)
	}

	if skipped > 0 {
		metrics.ArchiveLinesSkipped.Add(float64(skipped))
		logger.Warn("Skipped undecodable archive lines",
			zap.String("entity", string(entity)),
			zap.Int("skipped", skipped),
		)
	}

	logger.Debug("Archive query completed",
		zap.String("entity", string(entity)),
		zap.String("expression", expression),
	)

	return nil
}

// BuildExpression translates a date range and the optional filters into the
// archive service's SQL-style predicate. Urgency and search-volume bounds
// only exist on topics; category exists on all three datasets.
func BuildExpression(entity records.EntityType, dr records.DateRange, f records.Filters) string {
	var b strings.Builder

	fmt.Fprintf(&b, "SELECT * FROM %s WHERE %s BETWEEN '%s' AND '%s'",
		entity,
		timestampField(entity),
		dr.Start.UTC().Format(time.RFC3339),
		dr.End.UTC().Format(time.RFC3339),
	)

	if len(f.Category) > 0 {
		fmt.Fprintf(&b, " AND category IN (%s)", quoteList(f.Category))
	}

	if entity == records.EntityTopics {
		if len(f.Urgency) > 0 {
			fmt.Fprintf(&b, " AND urgency IN (%s)", quoteList(f.Urgency))
		}
		if f.SearchVolumeMin != nil {
			fmt.Fprintf(&b, " AND searchVolume >= %d", *f.SearchVolumeMin)
		}
		if f.SearchVolumeMax != nil {
			fmt.Fprintf(&b, " AND searchVolume <= %d", *f.SearchVolumeMax)
		}
	}

	return b.String()
}

func timestampField(entity records.EntityType) string {
	switch entity {
	case records.EntityTopics:
		return "discoveredAt"
	case records.EntityPrompts:
		return "generatedAt"
	default:
		return "createdAt"
	}
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}

// Package hot reads the low-latency store holding recent records. The
// ingestion pipeline writes each record as JSON into a per-entity sorted set
// scored by its event timestamp, which makes date-range reads a single
// ZRANGEBYSCORE.
package hot

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/contentpulse/backend/internal/records"
	"github.com/contentpulse/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Hot store client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) GatherTopics(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.TopicRecord, error) {
	members, err := c.rangeRead(ctx, records.EntityTopics, dr)
	if err != nil {
		return nil, err
	}

	out := []records.TopicRecord{}
	for _, m := range members {
		t, ok := records.DecodeTopic([]byte(m))
		if !ok {
			continue
		}
		if f.MatchTopic(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (c *Client) GatherPrompts(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.PromptRecord, error) {
	members, err := c.rangeRead(ctx, records.EntityPrompts, dr)
	if err != nil {
		return nil, err
	}

	out := []records.PromptRecord{}
	for _, m := range members {
		p, ok := records.DecodePrompt([]byte(m))
		if !ok {
			continue
		}
		if f.MatchPrompt(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Client) GatherMedia(ctx context.Context, dr records.DateRange, f records.Filters) ([]records.MediaRecord, error) {
	members, err := c.rangeRead(ctx, records.EntityMedia, dr)
	if err != nil {
		return nil, err
	}

	out := []records.MediaRecord{}
	for _, m := range members {
		mr, ok := records.DecodeMedia([]byte(m))
		if !ok {
			continue
		}
		if f.MatchMedia(mr) {
			out = append(out, mr)
		}
	}
	return out, nil
}

func (c *Client) rangeRead(ctx context.Context, entity records.EntityType, dr records.DateRange) ([]string, error) {
	key := fmt.Sprintf("records:%s", entity)

	members, err := c.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", dr.Start.Unix()),
		Max: fmt.Sprintf("%d", dr.End.Unix()),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read hot store range for %s: %w", entity, err)
	}

	logger.Debug("Hot store range read",
		zap.String("entity", string(entity)),
		zap.Int("members", len(members)),
	)

	return members, nil
}

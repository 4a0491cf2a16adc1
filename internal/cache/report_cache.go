package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/redis/go-redis/v9"
)

const reportFileKeyPrefix = keyPrefix + "report:file:"

// ReportCache keeps finished workbooks for download.
type ReportCache interface {
	GetFile(ctx context.Context, runID string) ([]byte, bool, error)
	SetFile(ctx context.Context, runID string, data []byte) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache returns a Redis-backed cache, or a no-op one when caching
// is disabled.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

func NewNoopReportCache() ReportCache {
	return &noopReportCache{}
}

func (c *redisReportCache) GetFile(ctx context.Context, runID string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, reportFileKeyPrefix+runID).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return data, true, nil
}

func (c *redisReportCache) SetFile(ctx context.Context, runID string, data []byte) error {
	if err := c.client.Set(ctx, reportFileKeyPrefix+runID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, reportFileKeyPrefix, scanBatchSize)
}

func (n *noopReportCache) GetFile(ctx context.Context, runID string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *noopReportCache) SetFile(ctx context.Context, runID string, data []byte) error {
	return nil
}

func (n *noopReportCache) InvalidateAll(ctx context.Context) error {
	return nil
}

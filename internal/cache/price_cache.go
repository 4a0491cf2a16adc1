package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/salesmap/internal/config"
	"github.com/andresuchdata/salesmap/internal/domain"
	"github.com/redis/go-redis/v9"
)

const priceGroupsKey = keyPrefix + "price-groups"

// PriceGroupCache holds the saved M-2 price table between requests.
type PriceGroupCache interface {
	Get(ctx context.Context) (domain.PriceGroups, bool, error)
	Set(ctx context.Context, groups domain.PriceGroups) error
	Invalidate(ctx context.Context) error
}

type redisPriceGroupCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPriceGroupCache struct{}

func NewPriceGroupCache(cfg config.CacheConfig) (PriceGroupCache, error) {
	if !cfg.Enabled {
		return &noopPriceGroupCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisPriceGroupCache{client: client, ttl: ttl}, nil
}

func NewNoopPriceGroupCache() PriceGroupCache {
	return &noopPriceGroupCache{}
}

func (c *redisPriceGroupCache) Get(ctx context.Context) (domain.PriceGroups, bool, error) {
	payload, err := c.client.Get(ctx, priceGroupsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var groups domain.PriceGroups
	if err := json.Unmarshal(payload, &groups); err != nil {
		return nil, false, fmt.Errorf("decode price groups cache: %w", err)
	}
	return groups, true, nil
}

func (c *redisPriceGroupCache) Set(ctx context.Context, groups domain.PriceGroups) error {
	payload, err := json.Marshal(groups)
	if err != nil {
		return fmt.Errorf("encode price groups cache: %w", err)
	}
	if err := c.client.Set(ctx, priceGroupsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisPriceGroupCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, priceGroupsKey).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func (n *noopPriceGroupCache) Get(ctx context.Context) (domain.PriceGroups, bool, error) {
	return nil, false, nil
}

func (n *noopPriceGroupCache) Set(ctx context.Context, groups domain.PriceGroups) error {
	return nil
}

func (n *noopPriceGroupCache) Invalidate(ctx context.Context) error {
	return nil
}

// Package cache keeps a Redis copy of the public service catalog so listing
// does not hit Postgres on every request.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/helpapp/marketplace/internal/model"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:services:v1"

// CatalogCache stores the full service list under a single key.
type CatalogCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewCatalogCache(rdb redis.Cmdable, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached list. A miss, a Redis error and an undecodable
// entry all report ok=false; the error is returned only for logging.
func (c *CatalogCache) Get(ctx context.Context) ([]model.Service, bool, error) {
	raw, err := c.rdb.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("catalog cache get: %w", err)
	}
	var services []model.Service
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, false, fmt.Errorf("catalog cache decode: %w", err)
	}
	return services, true, nil
}

func (c *CatalogCache) Set(ctx context.Context, services []model.Service) error {
	raw, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("catalog cache encode: %w", err)
	}
	if err := c.rdb.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("catalog cache set: %w", err)
	}
	return nil
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Del(ctx, catalogKey).Err(); err != nil {
		return fmt.Errorf("catalog cache invalidate: %w", err)
	}
	return nil
}

// Disabled is used when Redis is not reachable at startup.
type Disabled struct{}

func (Disabled) Get(context.Context) ([]model.Service, bool, error) { return nil, false, nil }
func (Disabled) Set(context.Context, []model.Service) error         { return nil }
func (Disabled) Invalidate(context.Context) error                   { return nil }

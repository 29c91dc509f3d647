package products

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

const detailCacheScope = "product_detail"

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(scope, id string) string
}

// DetailCache is a read-through Redis cache for single-product lookups.
type DetailCache struct {
	store cacheStore
	ttl   time.Duration
}

// NewDetailCache builds a cache with the provided TTL. A nil store
// disables caching entirely.
func NewDetailCache(store cacheStore, ttl time.Duration) *DetailCache {
	return &DetailCache{store: store, ttl: ttl}
}

// Get returns the cached DTO for the slug, or (nil, nil) on a miss.
func (c *DetailCache) Get(ctx context.Context, slug string) (*ProductDTO, error) {
	if c == nil || c.store == nil {
		return nil, nil
	}
	raw, err := c.store.Get(ctx, c.store.CacheKey(detailCacheScope, slug))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var dto ProductDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		// Treat a corrupt entry as a miss; the caller refreshes it.
		return nil, nil
	}
	return &dto, nil
}

// Put stores the DTO under the slug key for the configured TTL.
func (c *DetailCache) Put(ctx context.Context, slug string, dto *ProductDTO) error {
	if c == nil || c.store == nil || dto == nil {
		return nil
	}
	payload, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.store.CacheKey(detailCacheScope, slug), payload, c.ttl)
}

// Invalidate drops the cached entry for the slug.
func (c *DetailCache) Invalidate(ctx context.Context, slug string) error {
	if c == nil || c.store == nil || slug == "" {
		return nil
	}
	return c.store.Del(ctx, c.store.CacheKey(detailCacheScope, slug))
}

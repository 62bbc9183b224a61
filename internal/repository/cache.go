package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"factory-matching/internal/common/database"
	"factory-matching/internal/common/logger"
	"factory-matching/internal/common/metrics"
	"factory-matching/internal/models"
)

const (
	cacheKeyAll      = "factories:all"
	cacheKeyRegion   = "factories:region:"
	cacheKeyFactory  = "factories:id:"
	cacheResultHit   = "hit"
	cacheResultMiss  = "miss"
	cacheResultError = "error"
)

// CachedFactoryRepository serves factory reads from redis and falls back to
// the wrapped repository. Cache failures never fail a read. Concurrent misses
// on the same key share one backing read.
type CachedFactoryRepository struct {
	next   FactoryRepository
	redis  *database.RedisClient
	ttl    time.Duration
	loads  singleflight.Group
	logger logger.Logger
}

func NewCachedFactoryRepository(next FactoryRepository, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedFactoryRepository {
	return &CachedFactoryRepository{
		next:   next,
		redis:  redis,
		ttl:    ttl,
		logger: logger.ForComponent(log, "factory-cache"),
	}
}

func (c *CachedFactoryRepository) List(ctx context.Context) ([]models.Factory, error) {
	var out []models.Factory
	err := c.readThrough(ctx, cacheKeyAll, &out, func() (interface{}, error) {
		return c.next.List(ctx)
	})
	return out, err
}

func (c *CachedFactoryRepository) ListByRegion(ctx context.Context, region string) ([]models.Factory, error) {
	var out []models.Factory
	err := c.readThrough(ctx, cacheKeyRegion+region, &out, func() (interface{}, error) {
		return c.next.ListByRegion(ctx, region)
	})
	return out, err
}

func (c *CachedFactoryRepository) Get(ctx context.Context, id string) (*models.Factory, error) {
	var out *models.Factory
	err := c.readThrough(ctx, cacheKeyFactory+id, &out, func() (interface{}, error) {
		return c.next.Get(ctx, id)
	})
	return out, err
}

// Save writes through and invalidates every cached view the factory appears in.
func (c *CachedFactoryRepository) Save(ctx context.Context, f models.Factory) error {
	var previousRegion string
	if prev, err := c.next.Get(ctx, f.ID); err == nil {
		previousRegion = prev.Region
	}

	if err := c.next.Save(ctx, f); err != nil {
		return err
	}

	keys := []string{cacheKeyAll, cacheKeyFactory + f.ID, cacheKeyRegion + f.Region}
	if previousRegion != "" && previousRegion != f.Region {
		keys = append(keys, cacheKeyRegion+previousRegion)
	}
	if err := c.redis.Del(ctx, keys...); err != nil {
		c.logger.Warn("Failed to invalidate factory cache", map[string]interface{}{
			"factoryId": f.ID,
			"error":     err.Error(),
		})
	}
	return nil
}

func (c *CachedFactoryRepository) readThrough(ctx context.Context, key string, out interface{}, load func() (interface{}, error)) error {
	raw, err := c.redis.Get(ctx, key)
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
			metrics.CacheLookups.WithLabelValues(cacheResultHit).Inc()
			return nil
		}
		metrics.CacheLookups.WithLabelValues(cacheResultError).Inc()
	case errors.Is(err, database.ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues(cacheResultMiss).Inc()
	default:
		metrics.CacheLookups.WithLabelValues(cacheResultError).Inc()
		c.logger.Warn("Factory cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	payload, err, _ := c.loads.Do(key, func() (interface{}, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := c.redis.Set(ctx, key, payload, c.ttl); err != nil {
			c.logger.Warn("Factory cache write failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return payload, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(payload.([]byte), out)
}

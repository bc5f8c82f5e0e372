package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	domain "places-service/internal/domain/place"
)

// PlaceCache defines the interface for place caching operations.
type PlaceCache interface {
	// Get retrieves a place from cache by ID.
	// Returns nil if the place is not found in cache.
	Get(ctx context.Context, id string) (*domain.Place, error)

	// Set stores a place in cache with the configured TTL.
	Set(ctx context.Context, place *domain.Place) error

	// Delete removes a place from cache by ID.
	Delete(ctx context.Context, id string) error
}

// RedisPlaceCache implements PlaceCache using Redis as the backing store.
type RedisPlaceCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisPlaceCache creates a new Redis-backed place cache.
func NewRedisPlaceCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisPlaceCache {
	return &RedisPlaceCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// cacheKey generates a Redis key for a place ID.
func cacheKey(id string) string {
	return fmt.Sprintf("place:%s", id)
}

// Get retrieves a place from Redis cache.
func (c *RedisPlaceCache) Get(ctx context.Context, id string) (*domain.Place, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("place_id", id))
		return nil, nil
	}
	if err != nil {
		c.log.Error("failed to get from cache", zap.String("place_id", id), zap.Error(err))
		return nil, err
	}

	var place domain.Place
	if err := json.Unmarshal(data, &place); err != nil {
		c.log.Error("failed to unmarshal cached place", zap.String("place_id", id), zap.Error(err))
		return nil, err
	}

	c.log.Debug("cache hit", zap.String("place_id", id))
	return &place, nil
}

// Set stores a place in Redis cache with TTL.
func (c *RedisPlaceCache) Set(ctx context.Context, place *domain.Place) error {
	if place == nil {
		return fmt.Errorf("cannot cache nil place")
	}

	data, err := json.Marshal(place)
	if err != nil {
		c.log.Error("failed to marshal place for cache", zap.String("place_id", place.ID), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, cacheKey(place.ID), data, c.ttl).Err(); err != nil {
		c.log.Error("failed to set cache", zap.String("place_id", place.ID), zap.Error(err))
		return err
	}

	c.log.Debug("cached place", zap.String("place_id", place.ID), zap.Duration("ttl", c.ttl))
	return nil
}

// Delete removes a place from Redis cache.
func (c *RedisPlaceCache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		c.log.Error("failed to delete from cache", zap.String("place_id", id), zap.Error(err))
		return err
	}

	c.log.Debug("deleted from cache", zap.String("place_id", id))
	return nil
}

package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"places-service/internal/adapter/cache"
	domain "places-service/internal/domain/place"
	"places-service/internal/usecase/place"
	"places-service/pkg/metrics"
)

// CachedPlaceRepository implements place.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedPlaceRepository struct {
	dbRepo place.Repository
	cache  cache.PlaceCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedPlaceRepository creates a new instance of CachedPlaceRepository.
func NewCachedPlaceRepository(dbRepo place.Repository, cache cache.PlaceCache, log *zap.Logger) *CachedPlaceRepository {
	return &CachedPlaceRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

// GetByID retrieves a place by ID using the cache-aside pattern.
// Missing places are not cached. Every caller gets its own copy, including
// callers that shared one single-flight load.
func (r *CachedPlaceRepository) GetByID(ctx context.Context, id string) (*domain.Place, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, id)
		if err != nil {
			r.log.Warn("cache get error, falling back to database", zap.String("id", id), zap.Error(err))
		} else if cached != nil {
			metrics.ObserveCacheLookup(true)
			return cached, nil
		}
		metrics.ObserveCacheLookup(false)
	}

	// Collapse concurrent misses for the same place into one query
	result, err, _ := r.group.Do("place:"+id, func() (any, error) {
		if r.cache != nil {
			cached, err := r.cache.Get(ctx, id)
			if err == nil && cached != nil {
				r.log.Debug("place retrieved from cache after single-flight wait", zap.String("id", id))
				return cached, nil
			}
		}

		p, err := r.dbRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if p != nil && r.cache != nil {
			if err := r.cache.Set(ctx, p); err != nil {
				r.log.Warn("failed to cache place", zap.String("id", id), zap.Error(err))
			}
		}

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	p, _ := result.(*domain.Place)
	if p == nil {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// ListByCreator delegates to the DB repository.
func (r *CachedPlaceRepository) ListByCreator(ctx context.Context, creatorID string) ([]domain.Place, error) {
	return r.dbRepo.ListByCreator(ctx, creatorID)
}

// Update updates the place in DB and invalidates the cache.
func (r *CachedPlaceRepository) Update(ctx context.Context, p *domain.Place) error {
	if err := r.dbRepo.Update(ctx, p); err != nil {
		return err
	}

	if r.cache != nil {
		if err := r.cache.Delete(ctx, p.ID); err != nil {
			r.log.Warn("failed to invalidate cache after update", zap.String("id", p.ID), zap.Error(err))
		}
	}

	return nil
}

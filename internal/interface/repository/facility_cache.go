package repository

import (
	"context"
	"encoding/json"
	"time"

	"stablebook-service/internal/domain/entity"
	"stablebook-service/internal/domain/repository"
	"stablebook-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// CachedFacilityRepository wraps a FacilityRepository with a Redis
// read-through cache. Facility configuration is read on every booking attempt
// but changes rarely, so cache entries carry a short TTL and misses or Redis
// failures fall through to the inner repository.
type CachedFacilityRepository struct {
	inner  repository.FacilityRepository
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewCachedFacilityRepository creates a caching wrapper. A nil client
// disables caching and delegates every call.
func NewCachedFacilityRepository(inner repository.FacilityRepository, client *redis.Client, ttl time.Duration, logger logger.Logger) repository.FacilityRepository {
	return &CachedFacilityRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func facilityCacheKey(facilityID string) string {
	return "facility:" + facilityID
}

// GetByFacilityID returns the cached facility when present, otherwise reads
// the inner repository and populates the cache.
func (r *CachedFacilityRepository) GetByFacilityID(ctx context.Context, facilityID string) (*entity.Facility, error) {
	if r.client != nil {
		raw, err := r.client.Get(ctx, facilityCacheKey(facilityID)).Bytes()
		if err == nil {
			var facility entity.Facility
			if err := json.Unmarshal(raw, &facility); err == nil {
				return &facility, nil
			}
			// Corrupt cache entry; drop it and reload.
			r.client.Del(ctx, facilityCacheKey(facilityID))
		} else if err != redis.Nil {
			r.logger.Warn("facility cache read failed", "facilityId", facilityID, "error", err)
		}
	}

	facility, err := r.inner.GetByFacilityID(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	if r.client != nil {
		if raw, err := json.Marshal(facility); err == nil {
			if err := r.client.Set(ctx, facilityCacheKey(facilityID), raw, r.ttl).Err(); err != nil {
				r.logger.Warn("facility cache write failed", "facilityId", facilityID, "error", err)
			}
		}
	}
	return facility, nil
}

// Create inserts through the inner repository and invalidates the cache entry.
func (r *CachedFacilityRepository) Create(ctx context.Context, facility *entity.Facility) error {
	if err := r.inner.Create(ctx, facility); err != nil {
		return err
	}
	if r.client != nil {
		r.client.Del(ctx, facilityCacheKey(facility.FacilityID))
	}
	return nil
}

// List always reads the inner repository; listings are not cached.
func (r *CachedFacilityRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Facility, error) {
	return r.inner.List(ctx, activeOnly)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrResourceNotSchedulable = errors.New("resource is not schedulable")
	ErrPractitionerNotFound   = errors.New("practitioner not found in facility")
)

const resourceCacheTTL = time.Hour

// ResourceRegistry resolves or lazily creates the SchedulableResource
// for an underlying entity, with a Redis lookaside cache in front of
// the unique (facility, type, entity) row. Resources are never deleted,
// so cached IDs only need invalidation when the cache itself is suspect.
type ResourceRegistry struct {
	log          *logrus.Logger
	redisClient  *redis.Client
	resourceRepo repository.ResourceRepository
	userRepo     repository.UserRepository
}

func NewResourceRegistry(
	log *logrus.Logger,
	redisClient *redis.Client,
	resourceRepo repository.ResourceRepository,
	userRepo repository.UserRepository,
) *ResourceRegistry {
	return &ResourceRegistry{
		log:          log,
		redisClient:  redisClient,
		resourceRepo: resourceRepo,
		userRepo:     userRepo,
	}
}

func resourceCacheKey(facilityID uuid.UUID, resourceType entity.ResourceType, underlyingID uuid.UUID) string {
	return fmt.Sprintf("resource:%s:%s:%s", facilityID, resourceType, underlyingID)
}

// GetOrCreate resolves the schedulable resource for the given
// underlying entity, creating it on first reference. Only practitioner
// resources are schedulable today; other kinds are rejected.
func (r *ResourceRegistry) GetOrCreate(ctx context.Context, db *gorm.DB, facility *entity.Facility, resourceType entity.ResourceType, underlyingID uuid.UUID) (*entity.SchedulableResource, error) {
	if resourceType != entity.ResourceTypePractitioner {
		return nil, ErrResourceNotSchedulable
	}

	cacheKey := resourceCacheKey(facility.ID, resourceType, underlyingID)
	if cached, err := r.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		if resourceID, parseErr := uuid.Parse(cached); parseErr == nil {
			resource, findErr := r.resourceRepo.FindByID(db, resourceID)
			if findErr == nil && resource != nil {
				return resource, nil
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		r.log.Warnf("Resource cache read failed for %s: %+v", cacheKey, err)
	}

	user, err := r.userRepo.FindByID(db, underlyingID)
	if err != nil {
		return nil, fmt.Errorf("load practitioner %s: %w", underlyingID, err)
	}
	if user == nil {
		return nil, ErrPractitionerNotFound
	}

	resource, err := r.resourceRepo.GetOrCreate(db, &entity.SchedulableResource{
		FacilityID:   facility.ID,
		ResourceType: resourceType,
		UserID:       &user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("get or create resource: %w", err)
	}

	if err := r.redisClient.Set(ctx, cacheKey, resource.ID.String(), resourceCacheTTL).Err(); err != nil {
		// Cache population is best effort; the DB row is authoritative.
		r.log.Warnf("Resource cache write failed for %s: %+v", cacheKey, err)
	}
	return resource, nil
}

// Invalidate drops the cached resolution for an underlying entity
func (r *ResourceRegistry) Invalidate(ctx context.Context, facilityID uuid.UUID, resourceType entity.ResourceType, underlyingID uuid.UUID) {
	cacheKey := resourceCacheKey(facilityID, resourceType, underlyingID)
	if err := r.redisClient.Del(ctx, cacheKey).Err(); err != nil {
		r.log.Warnf("Resource cache invalidation failed for %s: %+v", cacheKey, err)
	}
}

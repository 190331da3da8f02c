package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResourceRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.SchedulableResource, error)
	// GetOrCreate resolves the unique (facility, type, entity) row,
	// inserting it on first reference.
	GetOrCreate(db *gorm.DB, resource *entity.SchedulableResource) (*entity.SchedulableResource, error)
	// FindPractitionersByFacility lists users that have a schedulable
	// resource in the facility.
	FindPractitionersByFacility(db *gorm.DB, facilityID uuid.UUID) ([]entity.User, error)
}

package repository

import (
	"errors"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type resourceRepository struct{}

func NewResourceRepository() domainRepo.ResourceRepository {
	return &resourceRepository{}
}

func (r *resourceRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.SchedulableResource, error) {
	var resource entity.SchedulableResource
	err := db.Where("id = ?", id).First(&resource).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) GetOrCreate(db *gorm.DB, resource *entity.SchedulableResource) (*entity.SchedulableResource, error) {
	var existing entity.SchedulableResource
	err := db.Where(
		"facility_id = ? AND resource_type = ? AND user_id = ?",
		resource.FacilityID, resource.ResourceType, resource.UserID,
	).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := db.Create(resource).Error; err != nil {
		return nil, err
	}
	return resource, nil
}

func (r *resourceRepository) FindPractitionersByFacility(db *gorm.DB, facilityID uuid.UUID) ([]entity.User, error) {
	var users []entity.User
	err := db.
		Joins("JOIN schedulable_resources ON schedulable_resources.user_id = users.id").
		Where("schedulable_resources.facility_id = ? AND schedulable_resources.resource_type = ?",
			facilityID, entity.ResourceTypePractitioner).
		Where("users.is_active = ?", true).
		Order("users.full_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

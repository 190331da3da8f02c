package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResourceType identifies what kind of entity a schedulable resource wraps
type ResourceType string

const (
	ResourceTypePractitioner      ResourceType = "practitioner"
	ResourceTypeLocation          ResourceType = "location"
	ResourceTypeHealthcareService ResourceType = "healthcare_service"
)

// IsValid reports whether the resource type is one the engine knows about
func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceTypePractitioner, ResourceTypeLocation, ResourceTypeHealthcareService:
		return true
	}
	return false
}

// SchedulableResource is a bookable entity scoped to a facility. Exactly
// one of UserID / LocationID / HealthcareServiceID is set, depending on
// ResourceType. Resources are created lazily on first reference and are
// never deleted.
type SchedulableResource struct {
	ID                  uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID          uuid.UUID    `gorm:"type:uuid;not null;index:idx_resource_identity,unique" json:"facility_id"`
	ResourceType        ResourceType `gorm:"type:varchar(50);not null;default:'practitioner';index:idx_resource_identity,unique" json:"resource_type"`
	UserID              *uuid.UUID   `gorm:"type:uuid;index:idx_resource_identity,unique" json:"user_id,omitempty"`
	LocationID          *uuid.UUID   `gorm:"type:uuid" json:"location_id,omitempty"`
	HealthcareServiceID *uuid.UUID   `gorm:"type:uuid" json:"healthcare_service_id,omitempty"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Facility Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
	User     *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (SchedulableResource) TableName() string {
	return "schedulable_resources"
}

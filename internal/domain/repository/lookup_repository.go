package repository

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Existence lookups for records owned by other services.

type FacilityRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Facility, error)
}

type UserRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
}

type PatientRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
}

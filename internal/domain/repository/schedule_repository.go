package repository

import (
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(db *gorm.DB, schedule *entity.Schedule) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Schedule, error)
	FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.Schedule, error)
	// FindByResourceOverlapping returns schedules whose validity window
	// intersects [from, to].
	FindByResourceOverlapping(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]entity.Schedule, error)
	Update(db *gorm.DB, schedule *entity.Schedule) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}

type AvailabilityRepository interface {
	Create(db *gorm.DB, availability *entity.Availability) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Availability, error)
	FindBySchedule(db *gorm.DB, scheduleID uuid.UUID) ([]entity.Availability, error)
	FindByScheduleIDs(db *gorm.DB, scheduleIDs []uuid.UUID, slotType entity.SlotType) ([]entity.Availability, error)
	// FindAppointmentForDay returns availabilities of type appointment
	// whose owning schedule's validity window contains day.
	FindAppointmentForDay(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.Availability, error)
	SoftDelete(db *gorm.DB, id uuid.UUID) error
	SoftDeleteByIDs(db *gorm.DB, ids []uuid.UUID) error
}

type ExceptionRepository interface {
	Create(db *gorm.DB, exception *entity.AvailabilityException) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilityException, error)
	FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.AvailabilityException, error)
	// FindByResourceOverlapping returns exceptions whose date range
	// intersects [from, to].
	FindByResourceOverlapping(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]entity.AvailabilityException, error)
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
}

package repository

import (
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository interface {
	Create(db *gorm.DB, booking *entity.TokenBooking) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenBooking, error)
	// CountActiveFutureByPatient counts the patient's non-cancelled-class
	// bookings on slots starting after now, across all resources.
	CountActiveFutureByPatient(db *gorm.DB, patientID uuid.UUID, now time.Time) (int64, error)
	// ExistsActiveForSlotAndPatient reports whether the patient already
	// holds a non-cancelled-class booking on the slot.
	ExistsActiveForSlotAndPatient(db *gorm.DB, slotID, patientID uuid.UUID) (bool, error)
	Update(db *gorm.DB, booking *entity.TokenBooking) error
	FindWithFilter(db *gorm.DB, facilityID uuid.UUID, filter *entity.BookingFilter) ([]entity.TokenBooking, error)
}

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
}

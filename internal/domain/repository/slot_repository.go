package repository

import (
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DayAllocation is one day's summed allocated count
type DayAllocation struct {
	Day       time.Time
	Allocated int
}

type SlotRepository interface {
	Create(db *gorm.DB, slot *entity.TokenSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenSlot, error)
	// FindByResourceAndDay returns live (non-deleted) slots whose
	// window falls on day, ordered by start time.
	FindByResourceAndDay(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.TokenSlot, error)
	// FindByResourceAndDayWithDeleted is FindByResourceAndDay without the
	// deleted filter, so the materializer can see tombstoned windows too.
	FindByResourceAndDayWithDeleted(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.TokenSlot, error)
	// RestoreByIDs clears the deleted flag on the given slots.
	RestoreByIDs(db *gorm.DB, ids []uuid.UUID) error
	// UpdateAllocated persists the counter after an in-lock mutation.
	UpdateAllocated(db *gorm.DB, id uuid.UUID, allocated int) error
	// SumAllocatedByDay groups allocated sums per day over [from, to].
	SumAllocatedByDay(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]DayAllocation, error)
	// HasFutureAllocated reports whether any live slot of the given
	// availabilities starts after now and has active bookings.
	HasFutureAllocated(db *gorm.DB, availabilityIDs []uuid.UUID, now time.Time) (bool, error)
	SoftDeleteByAvailabilityIDs(db *gorm.DB, availabilityIDs []uuid.UUID) error
	// FindInExceptionWindow returns live slots of the resource whose
	// start falls inside the exception's date range and daily time window.
	FindInExceptionWindow(db *gorm.DB, resourceID uuid.UUID, exc *entity.AvailabilityException) ([]entity.TokenSlot, error)
	SoftDeleteByIDs(db *gorm.DB, ids []uuid.UUID) error
}

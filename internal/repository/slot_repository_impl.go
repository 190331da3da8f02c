package repository

import (
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type slotRepository struct{}

func NewSlotRepository() domainRepo.SlotRepository {
	return &slotRepository{}
}

func (r *slotRepository) Create(db *gorm.DB, slot *entity.TokenSlot) error {
	return db.Create(slot).Error
}

func (r *slotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenSlot, error) {
	var slot entity.TokenSlot
	err := db.Preload("Resource").Preload("Availability").Where("id = ? AND deleted = ?", id, false).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *slotRepository) FindByResourceAndDay(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.TokenSlot, error) {
	dayStart := entity.DateOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var slots []entity.TokenSlot
	err := db.Where("resource_id = ? AND deleted = ?", resourceID, false).
		Where("start_datetime >= ? AND start_datetime < ?", dayStart, dayEnd).
		Order("start_datetime ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) FindByResourceAndDayWithDeleted(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.TokenSlot, error) {
	dayStart := entity.DateOf(day)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var slots []entity.TokenSlot
	err := db.Where("resource_id = ?", resourceID).
		Where("start_datetime >= ? AND start_datetime < ?", dayStart, dayEnd).
		Order("start_datetime ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) RestoreByIDs(db *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&entity.TokenSlot{}).Where("id IN ?", ids).Update("deleted", false).Error
}

func (r *slotRepository) UpdateAllocated(db *gorm.DB, id uuid.UUID, allocated int) error {
	return db.Model(&entity.TokenSlot{}).Where("id = ?", id).Update("allocated", allocated).Error
}

func (r *slotRepository) SumAllocatedByDay(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]domainRepo.DayAllocation, error) {
	var rows []domainRepo.DayAllocation
	err := db.Model(&entity.TokenSlot{}).
		Select("DATE(start_datetime) AS day, COALESCE(SUM(allocated), 0) AS allocated").
		Where("resource_id = ? AND deleted = ?", resourceID, false).
		Where("start_datetime >= ? AND start_datetime < ?", entity.DateOf(from), entity.DateOf(to).AddDate(0, 0, 1)).
		Group("DATE(start_datetime)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *slotRepository) HasFutureAllocated(db *gorm.DB, availabilityIDs []uuid.UUID, now time.Time) (bool, error) {
	if len(availabilityIDs) == 0 {
		return false, nil
	}
	var count int64
	err := db.Model(&entity.TokenSlot{}).
		Where("availability_id IN ? AND deleted = ?", availabilityIDs, false).
		Where("start_datetime > ? AND allocated > 0", now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *slotRepository) SoftDeleteByAvailabilityIDs(db *gorm.DB, availabilityIDs []uuid.UUID) error {
	if len(availabilityIDs) == 0 {
		return nil
	}
	return db.Model(&entity.TokenSlot{}).
		Where("availability_id IN ?", availabilityIDs).
		Update("deleted", true).Error
}

func (r *slotRepository) FindInExceptionWindow(db *gorm.DB, resourceID uuid.UUID, exc *entity.AvailabilityException) ([]entity.TokenSlot, error) {
	from := entity.DateOf(exc.ValidFrom)
	to := entity.DateOf(exc.ValidTo).AddDate(0, 0, 1)

	var slots []entity.TokenSlot
	err := db.Where("resource_id = ? AND deleted = ?", resourceID, false).
		Where("start_datetime >= ? AND start_datetime < ?", from, to).
		Where("start_datetime::time < ?::time AND end_datetime::time > ?::time", exc.EndTime, exc.StartTime).
		Order("start_datetime ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *slotRepository) SoftDeleteByIDs(db *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&entity.TokenSlot{}).Where("id IN ?", ids).Update("deleted", true).Error
}

package repository

import (
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(db *gorm.DB, schedule *entity.Schedule) error {
	return db.Create(schedule).Error
}

func (r *scheduleRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := db.Preload("Resource").
		Preload("Availabilities", "deleted = ?", false).
		Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.Preload("Availabilities", "deleted = ?", false).
		Where("resource_id = ?", resourceID).
		Order("valid_from ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) FindByResourceOverlapping(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.Where("resource_id = ? AND valid_from <= ? AND valid_to >= ?", resourceID, to, from).
		Order("valid_from ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(db *gorm.DB, schedule *entity.Schedule) error {
	return db.Omit("Resource", "Availabilities").Save(schedule).Error
}

func (r *scheduleRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.Schedule{})
	return affected.RowsAffected, affected.Error
}

type availabilityRepository struct{}

func NewAvailabilityRepository() domainRepo.AvailabilityRepository {
	return &availabilityRepository{}
}

func (r *availabilityRepository) Create(db *gorm.DB, availability *entity.Availability) error {
	return db.Create(availability).Error
}

func (r *availabilityRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Availability, error) {
	var availability entity.Availability
	err := db.Preload("Schedule").Where("id = ? AND deleted = ?", id, false).First(&availability).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &availability, nil
}

func (r *availabilityRepository) FindBySchedule(db *gorm.DB, scheduleID uuid.UUID) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.Where("schedule_id = ? AND deleted = ?", scheduleID, false).Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) FindByScheduleIDs(db *gorm.DB, scheduleIDs []uuid.UUID, slotType entity.SlotType) ([]entity.Availability, error) {
	if len(scheduleIDs) == 0 {
		return nil, nil
	}
	var availabilities []entity.Availability
	err := db.Where("schedule_id IN ? AND slot_type = ? AND deleted = ?", scheduleIDs, slotType, false).
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) FindAppointmentForDay(db *gorm.DB, resourceID uuid.UUID, day time.Time) ([]entity.Availability, error) {
	var availabilities []entity.Availability
	err := db.
		Joins("JOIN schedules ON schedules.id = availabilities.schedule_id").
		Where("schedules.resource_id = ?", resourceID).
		Where("schedules.valid_from <= ? AND schedules.valid_to >= ?", endOfDay(day), entity.DateOf(day)).
		Where("availabilities.slot_type = ? AND availabilities.deleted = ?", entity.SlotTypeAppointment, false).
		Find(&availabilities).Error
	if err != nil {
		return nil, err
	}
	return availabilities, nil
}

func (r *availabilityRepository) SoftDelete(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.Availability{}).Where("id = ?", id).Update("deleted", true).Error
}

func (r *availabilityRepository) SoftDeleteByIDs(db *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(&entity.Availability{}).Where("id IN ?", ids).Update("deleted", true).Error
}

type exceptionRepository struct{}

func NewExceptionRepository() domainRepo.ExceptionRepository {
	return &exceptionRepository{}
}

func (r *exceptionRepository) Create(db *gorm.DB, exception *entity.AvailabilityException) error {
	return db.Create(exception).Error
}

func (r *exceptionRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.AvailabilityException, error) {
	var exception entity.AvailabilityException
	err := db.Preload("Resource").Where("id = ?", id).First(&exception).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exception, nil
}

func (r *exceptionRepository) FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.AvailabilityException, error) {
	var exceptions []entity.AvailabilityException
	err := db.Where("resource_id = ?", resourceID).Order("valid_from ASC").Find(&exceptions).Error
	if err != nil {
		return nil, err
	}
	return exceptions, nil
}

func (r *exceptionRepository) FindByResourceOverlapping(db *gorm.DB, resourceID uuid.UUID, from, to time.Time) ([]entity.AvailabilityException, error) {
	var exceptions []entity.AvailabilityException
	err := db.Where("resource_id = ? AND valid_from <= ? AND valid_to >= ?",
		resourceID, entity.DateOf(to), entity.DateOf(from)).
		Find(&exceptions).Error
	if err != nil {
		return nil, err
	}
	return exceptions, nil
}

func (r *exceptionRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.AvailabilityException{})
	return affected.RowsAffected, affected.Error
}

// endOfDay returns the exclusive upper bound of a calendar day
func endOfDay(day time.Time) time.Time {
	return entity.DateOf(day).AddDate(0, 0, 1)
}

package repository

import (
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type bookingRepository struct{}

func NewBookingRepository() domainRepo.BookingRepository {
	return &bookingRepository{}
}

func (r *bookingRepository) Create(db *gorm.DB, booking *entity.TokenBooking) error {
	return db.Create(booking).Error
}

func (r *bookingRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenBooking, error) {
	var booking entity.TokenBooking
	err := db.Preload("TokenSlot").Preload("Patient").Preload("BookedBy").
		Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) CountActiveFutureByPatient(db *gorm.DB, patientID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	err := db.Model(&entity.TokenBooking{}).
		Joins("JOIN token_slots ON token_slots.id = token_bookings.token_slot_id").
		Where("token_bookings.patient_id = ?", patientID).
		Where("token_bookings.status NOT IN ?", entity.CancelledClassStatuses()).
		Where("token_slots.start_datetime > ?", now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookingRepository) ExistsActiveForSlotAndPatient(db *gorm.DB, slotID, patientID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&entity.TokenBooking{}).
		Where("token_slot_id = ? AND patient_id = ?", slotID, patientID).
		Where("status NOT IN ?", entity.CancelledClassStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *bookingRepository) Update(db *gorm.DB, booking *entity.TokenBooking) error {
	return db.Omit("TokenSlot", "Patient", "BookedBy").Save(booking).Error
}

func (r *bookingRepository) FindWithFilter(db *gorm.DB, facilityID uuid.UUID, filter *entity.BookingFilter) ([]entity.TokenBooking, error) {
	query := db.Model(&entity.TokenBooking{}).
		Joins("JOIN token_slots ON token_slots.id = token_bookings.token_slot_id").
		Joins("JOIN schedulable_resources ON schedulable_resources.id = token_slots.resource_id").
		Where("schedulable_resources.facility_id = ?", facilityID).
		Preload("TokenSlot").Preload("Patient")

	if filter.PatientID != nil {
		query = query.Where("token_bookings.patient_id = ?", *filter.PatientID)
	}
	if filter.SlotID != nil {
		query = query.Where("token_bookings.token_slot_id = ?", *filter.SlotID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("token_bookings.status IN ?", filter.Statuses)
	}
	if filter.DateFrom != "" {
		query = query.Where("token_slots.start_datetime >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("DATE(token_slots.start_datetime) <= ?", filter.DateTo)
	}

	var bookings []entity.TokenBooking
	err := query.Order("token_slots.start_datetime ASC").Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

type auditLogRepository struct{}

func NewAuditLogRepository() domainRepo.AuditLogRepository {
	return &auditLogRepository{}
}

func (r *auditLogRepository) Create(db *gorm.DB, log *entity.AuditLog) error {
	return db.Create(log).Error
}

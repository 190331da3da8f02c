package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-scheduling/config"
	"clinic-scheduling/internal/converter"
	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/domain/repository"
	"clinic-scheduling/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotNotFound           = errors.New("slot not found")
	ErrPatientNotFound        = errors.New("patient not found")
	ErrSlotPast               = errors.New("slot is already past")
	ErrSlotFull               = errors.New("slot is already full")
	ErrDuplicateBooking       = errors.New("patient already has a booking for this slot")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingLimitReached    = errors.New("patient has reached the maximum number of future bookings")
	ErrInvalidCancelReason    = errors.New("cancel reason must be cancelled, entered_in_error or rescheduled")
	ErrBookingInConsultation  = errors.New("booking is in consultation and cannot be cancelled")
	ErrBookingAlreadyInactive = errors.New("booking no longer holds a slot seat")
	ErrSameSlotReschedule     = errors.New("cannot reschedule onto the same slot")
)

type BookingUsecase interface {
	CreateBooking(ctx context.Context, facilityID, slotID uuid.UUID, actorID *uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	CancelBooking(ctx context.Context, facilityID, bookingID uuid.UUID, actorID *uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error)
	RescheduleBooking(ctx context.Context, facilityID, bookingID uuid.UUID, actorID *uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error)
	GetBooking(ctx context.Context, facilityID, bookingID uuid.UUID) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, facilityID uuid.UUID, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error)
}

type bookingUsecase struct {
	db          *gorm.DB
	log         *logrus.Logger
	cfg         config.BookingConfig
	lockService service.LockService
	audit       service.AuditService
	bookingRepo repository.BookingRepository
	slotRepo    repository.SlotRepository
	patientRepo repository.PatientRepository
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	lockService service.LockService,
	audit service.AuditService,
	bookingRepo repository.BookingRepository,
	slotRepo repository.SlotRepository,
	patientRepo repository.PatientRepository,
) BookingUsecase {
	return &bookingUsecase{
		db:          db,
		log:         log,
		cfg:         cfg,
		lockService: lockService,
		audit:       audit,
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		patientRepo: patientRepo,
	}
}

// CreateBooking allocates one seat of a slot to a patient.
//
// Flow:
//  1. Validate slot and patient exist (no lock held yet)
//  2. Enforce the per-patient future-booking cap
//  3. Acquire the resource lock
//  4. In one transaction: re-check past/full/duplicate, bump allocated,
//     insert the booking, write the audit row
func (u *bookingUsecase) CreateBooking(ctx context.Context, facilityID, slotID uuid.UUID, actorID *uuid.UUID, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	slot, err := u.slotRepo.FindByID(u.db.WithContext(ctx), slotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", slotID, err)
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	count, err := u.bookingRepo.CountActiveFutureByPatient(u.db.WithContext(ctx), patient.ID, time.Now())
	if err != nil {
		u.log.Warnf("Failed to count future bookings for patient %s: %+v", patient.ID, err)
		return nil, err
	}
	if count >= int64(u.cfg.MaxAppointmentsPerPatient) {
		return nil, ErrBookingLimitReached
	}

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(slot.ResourceID))
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *entity.TokenBooking
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err = u.allocateSeat(ctx, tx, slot.ID, patient.ID, actorID, req.Note, entity.StringArray(req.Tags))
		return err
	})
	if err != nil {
		return nil, err
	}

	full, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), booking.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", booking.ID, err)
		return converter.BookingToResponse(booking), nil
	}

	u.log.Infof("Booking created: id=%s, slot=%s, patient=%s", booking.ID, slot.ID, patient.ID)
	return converter.BookingToResponse(full), nil
}

// allocateSeat re-validates the slot inside the lock-protected
// transaction and creates the booking. Callers hold the resource lock.
func (u *bookingUsecase) allocateSeat(ctx context.Context, tx *gorm.DB, slotID, patientID uuid.UUID, actorID *uuid.UUID, note string, tags entity.StringArray) (*entity.TokenBooking, error) {
	slot, err := u.slotRepo.FindByID(tx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	if slot.IsPast(time.Now()) {
		return nil, ErrSlotPast
	}
	if slot.Availability == nil {
		return nil, fmt.Errorf("slot %s has no originating availability", slot.ID)
	}
	if slot.Allocated >= slot.Availability.TokensPerSlot {
		return nil, ErrSlotFull
	}

	exists, err := u.bookingRepo.ExistsActiveForSlotAndPatient(tx, slot.ID, patientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateBooking
	}

	if err := u.slotRepo.UpdateAllocated(tx, slot.ID, slot.Allocated+1); err != nil {
		return nil, err
	}

	booking := &entity.TokenBooking{
		TokenSlotID: slot.ID,
		PatientID:   patientID,
		BookedByID:  actorID,
		Status:      entity.BookingStatusBooked,
		Note:        note,
		Tags:        tags,
	}
	if err := u.bookingRepo.Create(tx, booking); err != nil {
		return nil, err
	}

	return booking, u.audit.LogAction(ctx, tx, actorID, entity.AuditActionBookingCreate, "token_booking", booking.ID.String(), map[string]interface{}{
		"slot_id":    slot.ID.String(),
		"patient_id": patientID.String(),
	})
}

// CancelBooking moves a booking to a cancelled-class status and frees
// its seat. The allocated counter is decremented exactly once; a
// booking already in a cancelled-class status only changes status.
func (u *bookingUsecase) CancelBooking(ctx context.Context, facilityID, bookingID uuid.UUID, actorID *uuid.UUID, req *dto.CancelBookingRequest) (*dto.BookingResponse, error) {
	reason := entity.BookingStatus(req.Reason)
	if !reason.IsCancelReason() {
		return nil, ErrInvalidCancelReason
	}

	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(booking.TokenSlot.ResourceID))
	if err != nil {
		return nil, err
	}
	defer release()

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return u.freeSeat(ctx, tx, bookingID, reason, req.Note, actorID)
	})
	if err != nil {
		return nil, err
	}

	updated, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		return nil, err
	}

	u.log.Infof("Booking cancelled: id=%s, reason=%s", bookingID, reason)
	return converter.BookingToResponse(updated), nil
}

// freeSeat performs the in-lock cancellation step. Callers hold the
// resource lock of the booking's slot.
func (u *bookingUsecase) freeSeat(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID, reason entity.BookingStatus, note string, actorID *uuid.UUID) error {
	booking, err := u.bookingRepo.FindByID(tx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return ErrBookingNotFound
	}
	if booking.Status == entity.BookingStatusInConsultation {
		return ErrBookingInConsultation
	}

	heldSeat := !booking.Status.IsCancelledClass()

	booking.Status = reason
	booking.Note = cancelNote(booking.Note, note)
	if err := u.bookingRepo.Update(tx, booking); err != nil {
		return err
	}

	if heldSeat {
		slot, err := u.slotRepo.FindByID(tx, booking.TokenSlotID)
		if err != nil {
			return err
		}
		if slot != nil && slot.Allocated > 0 {
			if err := u.slotRepo.UpdateAllocated(tx, slot.ID, slot.Allocated-1); err != nil {
				return err
			}
		}
	}

	return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionBookingCancel, "token_booking", booking.ID.String(), map[string]interface{}{
		"reason": string(reason),
	})
}

// cancelNote keeps the booking's own note unless the caller overrides it.
func cancelNote(current, override string) string {
	if override != "" {
		return override
	}
	return current
}

// RescheduleBooking atomically cancels the original booking as
// rescheduled and books the same patient onto the new slot. If the new
// slot is past, full or duplicated, the whole transaction rolls back
// and the original booking keeps its status.
func (u *bookingUsecase) RescheduleBooking(ctx context.Context, facilityID, bookingID uuid.UUID, actorID *uuid.UUID, req *dto.RescheduleBookingRequest) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.TokenSlotID == req.NewSlotID {
		return nil, ErrSameSlotReschedule
	}
	if booking.Status.IsCancelledClass() {
		return nil, ErrBookingAlreadyInactive
	}
	if booking.Status == entity.BookingStatusInConsultation {
		return nil, ErrBookingInConsultation
	}

	newSlot, err := u.slotRepo.FindByID(u.db.WithContext(ctx), req.NewSlotID)
	if err != nil {
		u.log.Warnf("Failed to find slot %s: %+v", req.NewSlotID, err)
		return nil, err
	}
	if newSlot == nil {
		return nil, ErrSlotNotFound
	}

	releases, err := u.acquireResourceLocks(ctx, booking.TokenSlot.ResourceID, newSlot.ResourceID)
	if err != nil {
		return nil, err
	}
	defer releases()

	var replacement *entity.TokenBooking
	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.freeSeat(ctx, tx, bookingID, entity.BookingStatusRescheduled, req.PreviousNote, actorID); err != nil {
			return err
		}
		replacement, err = u.allocateSeat(ctx, tx, newSlot.ID, booking.PatientID, actorID, req.Note, booking.Tags)
		if err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionBookingReschedule, "token_booking", bookingID.String(), map[string]interface{}{
			"new_booking_id": replacement.ID.String(),
			"new_slot_id":    newSlot.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	full, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), replacement.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload booking %s: %+v", replacement.ID, err)
		return converter.BookingToResponse(replacement), nil
	}

	u.log.Infof("Booking rescheduled: old=%s, new=%s, slot=%s", bookingID, replacement.ID, newSlot.ID)
	return converter.BookingToResponse(full), nil
}

// acquireResourceLocks takes both resource locks in a stable order so
// two concurrent reschedules cannot deadlock each other.
func (u *bookingUsecase) acquireResourceLocks(ctx context.Context, first, second uuid.UUID) (func(), error) {
	if first == second {
		return u.lockService.Acquire(ctx, service.ResourceLockKey(first))
	}
	if second.String() < first.String() {
		first, second = second, first
	}

	releaseFirst, err := u.lockService.Acquire(ctx, service.ResourceLockKey(first))
	if err != nil {
		return nil, err
	}
	releaseSecond, err := u.lockService.Acquire(ctx, service.ResourceLockKey(second))
	if err != nil {
		releaseFirst()
		return nil, err
	}
	return func() {
		releaseSecond()
		releaseFirst()
	}, nil
}

func (u *bookingUsecase) GetBooking(ctx context.Context, facilityID, bookingID uuid.UUID) (*dto.BookingResponse, error) {
	booking, err := u.bookingRepo.FindByID(u.db.WithContext(ctx), bookingID)
	if err != nil {
		u.log.Warnf("Failed to find booking %s: %+v", bookingID, err)
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	return converter.BookingToResponse(booking), nil
}

func (u *bookingUsecase) ListBookings(ctx context.Context, facilityID uuid.UUID, req *dto.ListBookingsRequest) (*dto.BookingListResponse, error) {
	filter := &entity.BookingFilter{
		PatientID: req.PatientID,
		SlotID:    req.SlotID,
		DateFrom:  req.DateFrom,
		DateTo:    req.DateTo,
	}
	for _, status := range req.Statuses {
		filter.Statuses = append(filter.Statuses, entity.BookingStatus(status))
	}

	bookings, err := u.bookingRepo.FindWithFilter(u.db.WithContext(ctx), facilityID, filter)
	if err != nil {
		u.log.Warnf("Failed to list bookings for facility %s: %+v", facilityID, err)
		return nil, err
	}

	return &dto.BookingListResponse{
		Bookings: converter.BookingsToResponses(bookings),
		Total:    len(bookings),
	}, nil
}

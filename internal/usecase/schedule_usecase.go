package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

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
	ErrScheduleNotFound          = errors.New("schedule not found")
	ErrAvailabilityNotFound      = errors.New("availability not found")
	ErrScheduleHasFutureBookings = errors.New("schedule has upcoming bookings and cannot be deleted")
	ErrInvalidValidityWindow     = errors.New("valid_to must not be before valid_from")
)

type ScheduleUsecase interface {
	CreateSchedule(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID) (*dto.ScheduleResponse, error)
	ListSchedules(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.ScheduleListResponse, error)
	UpdateSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeleteSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID) error
	CreateAvailability(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, facilityID, scheduleID, availabilityID uuid.UUID, actorID *uuid.UUID) error
	ListPractitioners(ctx context.Context, facilityID uuid.UUID) (*dto.PractitionerListResponse, error)
}

type scheduleUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	lockService      service.LockService
	registry         *service.ResourceRegistry
	audit            service.AuditService
	facilityRepo     repository.FacilityRepository
	resourceRepo     repository.ResourceRepository
	scheduleRepo     repository.ScheduleRepository
	availabilityRepo repository.AvailabilityRepository
	slotRepo         repository.SlotRepository
}

func NewScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	lockService service.LockService,
	registry *service.ResourceRegistry,
	audit service.AuditService,
	facilityRepo repository.FacilityRepository,
	resourceRepo repository.ResourceRepository,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	slotRepo repository.SlotRepository,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:               db,
		log:              log,
		lockService:      lockService,
		registry:         registry,
		audit:            audit,
		facilityRepo:     facilityRepo,
		resourceRepo:     resourceRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		slotRepo:         slotRepo,
	}
}

// CreateSchedule creates a validity window plus its initial
// availabilities in one transaction.
func (u *scheduleUsecase) CreateSchedule(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	validFrom, validTo, err := parseValidity(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		u.log.Warnf("Failed to find facility %s: %+v", facilityID, err)
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	resource, err := u.registry.GetOrCreate(ctx, u.db.WithContext(ctx), facility, entity.ResourceTypePractitioner, req.PractitionerID)
	if err != nil {
		return nil, err
	}

	schedule := &entity.Schedule{
		ResourceID: resource.ID,
		Name:       req.Name,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.scheduleRepo.Create(tx, schedule); err != nil {
			return err
		}
		for i := range req.Availabilities {
			availability, err := buildAvailability(schedule.ID, &req.Availabilities[i])
			if err != nil {
				return err
			}
			if err := u.availabilityRepo.Create(tx, availability); err != nil {
				return err
			}
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionScheduleCreate, "schedule", schedule.ID.String(), map[string]interface{}{
			"resource_id": resource.ID.String(),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to create schedule for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	full, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), schedule.ID)
	if err != nil || full == nil {
		return converter.ScheduleToResponse(schedule), nil
	}

	u.log.Infof("Schedule created: id=%s, resource=%s", schedule.ID, resource.ID)
	return converter.ScheduleToResponse(full), nil
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}
	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) ListSchedules(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.ScheduleListResponse, error) {
	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	resource, err := u.registry.GetOrCreate(ctx, u.db.WithContext(ctx), facility, entity.ResourceTypePractitioner, practitionerID)
	if err != nil {
		return nil, err
	}

	schedules, err := u.scheduleRepo.FindByResource(u.db.WithContext(ctx), resource.ID)
	if err != nil {
		u.log.Warnf("Failed to list schedules for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

// UpdateSchedule changes the name or validity window under the
// resource lock so a concurrent materialization sees either the old or
// the new window, never a half-applied one.
func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(schedule.ResourceID))
	if err != nil {
		return nil, err
	}
	defer release()

	if req.Name != "" {
		schedule.Name = req.Name
	}
	if req.ValidFrom != "" {
		validFrom, err := time.Parse(dateLayout, req.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid valid_from %q: %w", req.ValidFrom, err)
		}
		schedule.ValidFrom = validFrom
	}
	if req.ValidTo != "" {
		validTo, err := time.Parse(dateLayout, req.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("invalid valid_to %q: %w", req.ValidTo, err)
		}
		schedule.ValidTo = validTo
	}
	if schedule.ValidTo.Before(schedule.ValidFrom) {
		return nil, ErrInvalidValidityWindow
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.scheduleRepo.Update(tx, schedule); err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionScheduleUpdate, "schedule", schedule.ID.String(), nil)
	})
	if err != nil {
		u.log.Warnf("Failed to update schedule %s: %+v", scheduleID, err)
		return nil, err
	}

	u.log.Infof("Schedule updated: id=%s", scheduleID)
	return converter.ScheduleToResponse(schedule), nil
}

// DeleteSchedule removes a schedule, soft-deleting its availabilities
// and their slots. Refused while any of those slots still has future
// active bookings.
func (u *scheduleUsecase) DeleteSchedule(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID) error {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s: %+v", scheduleID, err)
		return err
	}
	if schedule == nil {
		return ErrScheduleNotFound
	}

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(schedule.ResourceID))
	if err != nil {
		return err
	}
	defer release()

	availabilities, err := u.availabilityRepo.FindBySchedule(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		return err
	}
	availabilityIDs := make([]uuid.UUID, len(availabilities))
	for i := range availabilities {
		availabilityIDs[i] = availabilities[i].ID
	}

	hasFuture, err := u.slotRepo.HasFutureAllocated(u.db.WithContext(ctx), availabilityIDs, time.Now())
	if err != nil {
		return err
	}
	if hasFuture {
		return ErrScheduleHasFutureBookings
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.slotRepo.SoftDeleteByAvailabilityIDs(tx, availabilityIDs); err != nil {
			return err
		}
		if err := u.availabilityRepo.SoftDeleteByIDs(tx, availabilityIDs); err != nil {
			return err
		}
		affected, err := u.scheduleRepo.Delete(tx, scheduleID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrScheduleNotFound
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionScheduleDelete, "schedule", scheduleID.String(), nil)
	})
	if err != nil {
		u.log.Warnf("Failed to delete schedule %s: %+v", scheduleID, err)
		return err
	}

	u.log.Infof("Schedule deleted: id=%s", scheduleID)
	return nil
}

// CreateAvailability attaches a new weekly pattern to an existing schedule
func (u *scheduleUsecase) CreateAvailability(ctx context.Context, facilityID, scheduleID uuid.UUID, actorID *uuid.UUID, req *dto.CreateAvailabilityRequest) (*dto.AvailabilityResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(u.db.WithContext(ctx), scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %s: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, ErrScheduleNotFound
	}

	availability, err := buildAvailability(schedule.ID, req)
	if err != nil {
		return nil, err
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.availabilityRepo.Create(tx, availability); err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionAvailabilityCreate, "availability", availability.ID.String(), map[string]interface{}{
			"schedule_id": schedule.ID.String(),
		})
	})
	if err != nil {
		u.log.Warnf("Failed to create availability for schedule %s: %+v", scheduleID, err)
		return nil, err
	}

	u.log.Infof("Availability created: id=%s, schedule=%s", availability.ID, scheduleID)
	return converter.AvailabilityToResponse(availability), nil
}

// DeleteAvailability soft-deletes one availability and its slots,
// guarded against future active bookings like schedule deletion.
func (u *scheduleUsecase) DeleteAvailability(ctx context.Context, facilityID, scheduleID, availabilityID uuid.UUID, actorID *uuid.UUID) error {
	availability, err := u.availabilityRepo.FindByID(u.db.WithContext(ctx), availabilityID)
	if err != nil {
		u.log.Warnf("Failed to find availability %s: %+v", availabilityID, err)
		return err
	}
	if availability == nil || availability.ScheduleID != scheduleID {
		return ErrAvailabilityNotFound
	}

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(availability.Schedule.ResourceID))
	if err != nil {
		return err
	}
	defer release()

	hasFuture, err := u.slotRepo.HasFutureAllocated(u.db.WithContext(ctx), []uuid.UUID{availabilityID}, time.Now())
	if err != nil {
		return err
	}
	if hasFuture {
		return ErrScheduleHasFutureBookings
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.slotRepo.SoftDeleteByAvailabilityIDs(tx, []uuid.UUID{availabilityID}); err != nil {
			return err
		}
		if err := u.availabilityRepo.SoftDelete(tx, availabilityID); err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionAvailabilityDelete, "availability", availabilityID.String(), nil)
	})
	if err != nil {
		u.log.Warnf("Failed to delete availability %s: %+v", availabilityID, err)
		return err
	}

	u.log.Infof("Availability deleted: id=%s", availabilityID)
	return nil
}

func (u *scheduleUsecase) ListPractitioners(ctx context.Context, facilityID uuid.UUID) (*dto.PractitionerListResponse, error) {
	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	users, err := u.resourceRepo.FindPractitionersByFacility(u.db.WithContext(ctx), facilityID)
	if err != nil {
		u.log.Warnf("Failed to list practitioners for facility %s: %+v", facilityID, err)
		return nil, err
	}

	return &dto.PractitionerListResponse{
		Practitioners: converter.PractitionersToResponses(users),
		Total:         len(users),
	}, nil
}

func parseValidity(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid valid_from %q: %w", fromStr, err)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid valid_to %q: %w", toStr, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, ErrInvalidValidityWindow
	}
	return from, to, nil
}

func buildAvailability(scheduleID uuid.UUID, req *dto.CreateAvailabilityRequest) (*entity.Availability, error) {
	rows := make(entity.AvailabilityRows, len(req.Availability))
	for i, row := range req.Availability {
		start, err := entity.ParseClock(row.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time %q: %w", row.StartTime, err)
		}
		end, err := entity.ParseClock(row.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time %q: %w", row.EndTime, err)
		}
		if end <= start {
			return nil, fmt.Errorf("end_time %q must be after start_time %q", row.EndTime, row.StartTime)
		}
		rows[i] = entity.AvailabilityRow{
			DayOfWeek: row.DayOfWeek,
			StartTime: row.StartTime,
			EndTime:   row.EndTime,
		}
	}

	return &entity.Availability{
		ScheduleID:        scheduleID,
		Name:              req.Name,
		SlotType:          entity.SlotType(req.SlotType),
		SlotSizeInMinutes: req.SlotSizeInMinutes,
		TokensPerSlot:     req.TokensPerSlot,
		Reason:            req.Reason,
		Availability:      rows,
	}, nil
}

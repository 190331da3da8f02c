package usecase

import (
	"context"
	"errors"
	"fmt"

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
	ErrExceptionNotFound         = errors.New("availability exception not found")
	ErrExceptionOverlapsBookings = errors.New("exception overlaps slots with active bookings")
	ErrInvalidTimeWindow         = errors.New("end_time must be after start_time")
)

type ExceptionUsecase interface {
	CreateException(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.CreateExceptionRequest) (*dto.ExceptionResponse, error)
	ListExceptions(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.ExceptionListResponse, error)
	DeleteException(ctx context.Context, facilityID, exceptionID uuid.UUID, actorID *uuid.UUID) error
}

type exceptionUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	lockService   service.LockService
	registry      *service.ResourceRegistry
	audit         service.AuditService
	facilityRepo  repository.FacilityRepository
	exceptionRepo repository.ExceptionRepository
	slotRepo      repository.SlotRepository
}

func NewExceptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	lockService service.LockService,
	registry *service.ResourceRegistry,
	audit service.AuditService,
	facilityRepo repository.FacilityRepository,
	exceptionRepo repository.ExceptionRepository,
	slotRepo repository.SlotRepository,
) ExceptionUsecase {
	return &exceptionUsecase{
		db:            db,
		log:           log,
		lockService:   lockService,
		registry:      registry,
		audit:         audit,
		facilityRepo:  facilityRepo,
		exceptionRepo: exceptionRepo,
		slotRepo:      slotRepo,
	}
}

// CreateException registers a blackout window. Already-materialized
// slots inside the window are soft-deleted; creation is rejected if any
// of them has active bookings.
func (u *exceptionUsecase) CreateException(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.CreateExceptionRequest) (*dto.ExceptionResponse, error) {
	validFrom, validTo, err := parseValidity(req.ValidFrom, req.ValidTo)
	if err != nil {
		return nil, err
	}

	startClock, err := entity.ParseClock(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time %q: %w", req.StartTime, err)
	}
	endClock, err := entity.ParseClock(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time %q: %w", req.EndTime, err)
	}
	if endClock <= startClock {
		return nil, ErrInvalidTimeWindow
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

	release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(resource.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	exception := &entity.AvailabilityException{
		ResourceID: resource.ID,
		Name:       req.Name,
		Reason:     req.Reason,
		ValidFrom:  validFrom,
		ValidTo:    validTo,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		overlapping, err := u.slotRepo.FindInExceptionWindow(tx, resource.ID, exception)
		if err != nil {
			return err
		}
		slotIDs := make([]uuid.UUID, 0, len(overlapping))
		for i := range overlapping {
			if overlapping[i].Allocated > 0 {
				return ErrExceptionOverlapsBookings
			}
			slotIDs = append(slotIDs, overlapping[i].ID)
		}

		if err := u.exceptionRepo.Create(tx, exception); err != nil {
			return err
		}
		if err := u.slotRepo.SoftDeleteByIDs(tx, slotIDs); err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionExceptionCreate, "availability_exception", exception.ID.String(), map[string]interface{}{
			"resource_id":   resource.ID.String(),
			"slots_removed": len(slotIDs),
		})
	})
	if err != nil {
		if !errors.Is(err, ErrExceptionOverlapsBookings) {
			u.log.Warnf("Failed to create exception for resource %s: %+v", resource.ID, err)
		}
		return nil, err
	}

	u.log.Infof("Exception created: id=%s, resource=%s", exception.ID, resource.ID)
	return converter.ExceptionToResponse(exception), nil
}

func (u *exceptionUsecase) ListExceptions(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.ExceptionListResponse, error) {
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

	exceptions, err := u.exceptionRepo.FindByResource(u.db.WithContext(ctx), resource.ID)
	if err != nil {
		u.log.Warnf("Failed to list exceptions for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	return &dto.ExceptionListResponse{
		Exceptions: converter.ExceptionsToResponses(exceptions),
		Total:      len(exceptions),
	}, nil
}

// DeleteException removes the blackout; slots it suppressed reappear on
// the next materialization of the affected days.
func (u *exceptionUsecase) DeleteException(ctx context.Context, facilityID, exceptionID uuid.UUID, actorID *uuid.UUID) error {
	exception, err := u.exceptionRepo.FindByID(u.db.WithContext(ctx), exceptionID)
	if err != nil {
		u.log.Warnf("Failed to find exception %s: %+v", exceptionID, err)
		return err
	}
	if exception == nil {
		return ErrExceptionNotFound
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		affected, err := u.exceptionRepo.Delete(tx, exceptionID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrExceptionNotFound
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionExceptionDelete, "availability_exception", exceptionID.String(), nil)
	})
	if err != nil {
		u.log.Warnf("Failed to delete exception %s: %+v", exceptionID, err)
		return err
	}

	u.log.Infof("Exception deleted: id=%s", exceptionID)
	return nil
}

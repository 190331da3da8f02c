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
	ErrFacilityNotFound   = errors.New("facility not found")
	ErrInvalidDateRange   = errors.New("to_date must not be before from_date")
	ErrStatsPeriodTooLong = errors.New("stats period exceeds the maximum allowed days")
)

const dateLayout = "2006-01-02"

type SlotUsecase interface {
	// GetSlotsForDay expands the resource's availabilities for the day,
	// materializes any missing slots and returns the full set.
	GetSlotsForDay(ctx context.Context, facilityID uuid.UUID, req *dto.GetSlotsRequest) (*dto.SlotListResponse, error)
	// AvailabilityStats reports expected vs booked capacity per day.
	AvailabilityStats(ctx context.Context, facilityID uuid.UUID, req *dto.AvailabilityStatsRequest) (*dto.AvailabilityStatsResponse, error)
}

type slotUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	cfg              config.BookingConfig
	expander         *service.SlotExpander
	registry         *service.ResourceRegistry
	lockService      service.LockService
	facilityRepo     repository.FacilityRepository
	scheduleRepo     repository.ScheduleRepository
	availabilityRepo repository.AvailabilityRepository
	exceptionRepo    repository.ExceptionRepository
	slotRepo         repository.SlotRepository
}

func NewSlotUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.BookingConfig,
	expander *service.SlotExpander,
	registry *service.ResourceRegistry,
	lockService service.LockService,
	facilityRepo repository.FacilityRepository,
	scheduleRepo repository.ScheduleRepository,
	availabilityRepo repository.AvailabilityRepository,
	exceptionRepo repository.ExceptionRepository,
	slotRepo repository.SlotRepository,
) SlotUsecase {
	return &slotUsecase{
		db:               db,
		log:              log,
		cfg:              cfg,
		expander:         expander,
		registry:         registry,
		lockService:      lockService,
		facilityRepo:     facilityRepo,
		scheduleRepo:     scheduleRepo,
		availabilityRepo: availabilityRepo,
		exceptionRepo:    exceptionRepo,
		slotRepo:         slotRepo,
	}
}

// GetSlotsForDay materializes and returns the day's slots.
//
// Flow:
//  1. Resolve facility and schedulable resource
//  2. Expand availabilities minus exceptions into candidate windows
//  3. Diff against persisted slots on (start, end, availability),
//     including tombstones left behind by deleted exceptions
//  4. Under the resource lock, revive matching tombstones and create
//     what is missing, skipping windows already in the past
//  5. Return every live slot for the day
//
// The operation is idempotent: repeated calls never duplicate slots.
// The partial unique index on the slot window backstops concurrent
// materializers; a duplicate key from a racing request means the slot
// already exists and is not an error.
func (u *slotUsecase) GetSlotsForDay(ctx context.Context, facilityID uuid.UUID, req *dto.GetSlotsRequest) (*dto.SlotListResponse, error) {
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
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

	availabilities, err := u.availabilityRepo.FindAppointmentForDay(u.db.WithContext(ctx), resource.ID, day)
	if err != nil {
		u.log.Warnf("Failed to load availabilities for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	exceptions, err := u.exceptionRepo.FindByResourceOverlapping(u.db.WithContext(ctx), resource.ID, day, day)
	if err != nil {
		u.log.Warnf("Failed to load exceptions for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	candidates := u.expander.ExpandDay(availabilities, exceptions, day)

	existing, err := u.slotRepo.FindByResourceAndDayWithDeleted(u.db.WithContext(ctx), resource.ID, day)
	if err != nil {
		u.log.Warnf("Failed to load slots for resource %s on %s: %+v", resource.ID, req.Date, err)
		return nil, err
	}

	now := time.Now()
	revive := reconcileSlots(existing, candidates)
	var reviveIDs []uuid.UUID
	for i := range revive {
		if revive[i].IsPast(now) {
			continue
		}
		reviveIDs = append(reviveIDs, revive[i].ID)
	}

	if len(candidates) > 0 || len(reviveIDs) > 0 {
		release, err := u.lockService.Acquire(ctx, service.ResourceLockKey(resource.ID))
		if err != nil {
			u.log.Warnf("Failed to lock resource %s for materialization: %+v", resource.ID, err)
			return nil, err
		}
		defer release()

		if err := u.slotRepo.RestoreByIDs(u.db.WithContext(ctx), reviveIDs); err != nil {
			u.log.Warnf("Failed to restore slots for resource %s: %+v", resource.ID, err)
			return nil, err
		}

		for _, candidate := range service.SortCandidates(candidates) {
			if candidate.EndDatetime.Before(now) {
				continue
			}
			availabilityID := candidate.AvailabilityID
			slot := &entity.TokenSlot{
				ResourceID:     resource.ID,
				AvailabilityID: &availabilityID,
				StartDatetime:  candidate.StartDatetime,
				EndDatetime:    candidate.EndDatetime,
			}
			if err := u.slotRepo.Create(u.db.WithContext(ctx), slot); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					continue
				}
				u.log.Warnf("Failed to materialize slot %s for resource %s: %+v", candidate.Key(), resource.ID, err)
				return nil, err
			}
		}
	}

	slots, err := u.slotRepo.FindByResourceAndDay(u.db.WithContext(ctx), resource.ID, day)
	if err != nil {
		return nil, err
	}

	return &dto.SlotListResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// reconcileSlots prunes candidates that already exist as live slots and
// returns the tombstoned rows whose window is wanted again, so they can
// be revived rather than recreated. Live rows win over tombstones when
// both carry the same window.
func reconcileSlots(existing []entity.TokenSlot, candidates map[string]service.CandidateSlot) []entity.TokenSlot {
	matches := func(slot *entity.TokenSlot) (string, bool) {
		key := slot.StartDatetime.Format("15:04:05") + "-" + slot.EndDatetime.Format("15:04:05")
		candidate, ok := candidates[key]
		if !ok {
			return "", false
		}
		if slot.AvailabilityID == nil || *slot.AvailabilityID != candidate.AvailabilityID {
			return "", false
		}
		return key, true
	}

	for i := range existing {
		if existing[i].Deleted {
			continue
		}
		if key, ok := matches(&existing[i]); ok {
			delete(candidates, key)
		}
	}

	var revive []entity.TokenSlot
	for i := range existing {
		if !existing[i].Deleted {
			continue
		}
		if key, ok := matches(&existing[i]); ok {
			delete(candidates, key)
			revive = append(revive, existing[i])
		}
	}
	return revive
}

// AvailabilityStats re-expands availabilities per day (no
// materialization) and pairs the theoretical capacity with the summed
// allocated counts of persisted slots. Read-only, no locking.
func (u *slotUsecase) AvailabilityStats(ctx context.Context, facilityID uuid.UUID, req *dto.AvailabilityStatsRequest) (*dto.AvailabilityStatsResponse, error) {
	from, err := time.Parse(dateLayout, req.FromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid from_date %q: %w", req.FromDate, err)
	}
	to, err := time.Parse(dateLayout, req.ToDate)
	if err != nil {
		return nil, fmt.Errorf("invalid to_date %q: %w", req.ToDate, err)
	}
	if to.Before(from) {
		return nil, ErrInvalidDateRange
	}
	if int(to.Sub(from).Hours()/24) > u.cfg.StatsMaxPeriodDays {
		return nil, ErrStatsPeriodTooLong
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

	schedules, err := u.scheduleRepo.FindByResourceOverlapping(u.db.WithContext(ctx), resource.ID, from, to)
	if err != nil {
		return nil, err
	}
	scheduleIDs := make([]uuid.UUID, len(schedules))
	schedulesByID := make(map[uuid.UUID]*entity.Schedule, len(schedules))
	for i := range schedules {
		scheduleIDs[i] = schedules[i].ID
		schedulesByID[schedules[i].ID] = &schedules[i]
	}

	availabilities, err := u.availabilityRepo.FindByScheduleIDs(u.db.WithContext(ctx), scheduleIDs, entity.SlotTypeAppointment)
	if err != nil {
		return nil, err
	}

	exceptions, err := u.exceptionRepo.FindByResourceOverlapping(u.db.WithContext(ctx), resource.ID, from, to)
	if err != nil {
		return nil, err
	}

	allocations, err := u.slotRepo.SumAllocatedByDay(u.db.WithContext(ctx), resource.ID, from, to)
	if err != nil {
		return nil, err
	}
	bookedByDate := make(map[string]int, len(allocations))
	for _, allocation := range allocations {
		bookedByDate[allocation.Day.Format(dateLayout)] = allocation.Allocated
	}

	var days []dto.DayStatsResponse
	for day := entity.DateOf(from); !day.After(entity.DateOf(to)); day = day.AddDate(0, 0, 1) {
		var dayAvailabilities []entity.Availability
		for i := range availabilities {
			schedule, ok := schedulesByID[availabilities[i].ScheduleID]
			if ok && schedule.ContainsDate(day) {
				dayAvailabilities = append(dayAvailabilities, availabilities[i])
			}
		}
		dateStr := day.Format(dateLayout)
		days = append(days, dto.DayStatsResponse{
			Date:        dateStr,
			TotalSlots:  u.expander.DayCapacity(dayAvailabilities, exceptions, day),
			BookedSlots: bookedByDate[dateStr],
		})
	}

	return &dto.AvailabilityStatsResponse{Days: days}, nil
}

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
	ErrQueueNotFound    = errors.New("queue not found")
	ErrSubQueueNotFound = errors.New("sub-queue not found")
	ErrCategoryNotFound = errors.New("token category not found")
)

type QueueUsecase interface {
	CreateQueue(ctx context.Context, facilityID uuid.UUID, req *dto.CreateQueueRequest) (*dto.QueueResponse, error)
	GetQueue(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueResponse, error)
	ListQueues(ctx context.Context, facilityID uuid.UUID, req *dto.ListQueuesRequest) (*dto.QueueListResponse, error)
	SetPrimaryQueue(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueResponse, error)
	QueueSummary(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueSummaryResponse, error)
	ListQueueTokens(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.TokenListResponse, error)

	CreateSubQueue(ctx context.Context, facilityID uuid.UUID, req *dto.CreateSubQueueRequest) (*dto.SubQueueResponse, error)
	ListSubQueues(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.SubQueueListResponse, error)
	UpdateSubQueue(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.UpdateSubQueueRequest) (*dto.SubQueueResponse, error)

	CreateCategory(ctx context.Context, facilityID uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context, facilityID uuid.UUID) (*dto.CategoryListResponse, error)
}

type queueUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	registry     *service.ResourceRegistry
	facilityRepo repository.FacilityRepository
	queueRepo    repository.TokenQueueRepository
	subQueueRepo repository.TokenSubQueueRepository
	categoryRepo repository.TokenCategoryRepository
	tokenRepo    repository.TokenRepository
}

func NewQueueUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	registry *service.ResourceRegistry,
	facilityRepo repository.FacilityRepository,
	queueRepo repository.TokenQueueRepository,
	subQueueRepo repository.TokenSubQueueRepository,
	categoryRepo repository.TokenCategoryRepository,
	tokenRepo repository.TokenRepository,
) QueueUsecase {
	return &queueUsecase{
		db:           db,
		log:          log,
		registry:     registry,
		facilityRepo: facilityRepo,
		queueRepo:    queueRepo,
		subQueueRepo: subQueueRepo,
		categoryRepo: categoryRepo,
		tokenRepo:    tokenRepo,
	}
}

// CreateQueue creates a named queue for a (resource, date). The first
// queue of the day becomes primary automatically.
func (u *queueUsecase) CreateQueue(ctx context.Context, facilityID uuid.UUID, req *dto.CreateQueueRequest) (*dto.QueueResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	facility, resource, err := u.resolveResource(ctx, facilityID, req.PractitionerID)
	if err != nil {
		return nil, err
	}

	queue := &entity.TokenQueue{
		FacilityID: facility.ID,
		ResourceID: resource.ID,
		Name:       req.Name,
		Date:       date,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := u.queueRepo.FindByResourceAndDate(tx, resource.ID, date)
		if err != nil {
			return err
		}
		queue.IsPrimary = len(existing) == 0
		return u.queueRepo.Create(tx, queue)
	})
	if err != nil {
		u.log.Warnf("Failed to create queue for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	u.log.Infof("Queue created: id=%s, resource=%s, date=%s, primary=%t", queue.ID, resource.ID, req.Date, queue.IsPrimary)
	return converter.QueueToResponse(queue), nil
}

func (u *queueUsecase) GetQueue(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueResponse, error) {
	queue, err := u.findQueue(ctx, facilityID, queueID)
	if err != nil {
		return nil, err
	}
	return converter.QueueToResponse(queue), nil
}

func (u *queueUsecase) ListQueues(ctx context.Context, facilityID uuid.UUID, req *dto.ListQueuesRequest) (*dto.QueueListResponse, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	_, resource, err := u.resolveResource(ctx, facilityID, req.PractitionerID)
	if err != nil {
		return nil, err
	}

	queues, err := u.queueRepo.FindByResourceAndDate(u.db.WithContext(ctx), resource.ID, date)
	if err != nil {
		u.log.Warnf("Failed to list queues for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	return &dto.QueueListResponse{
		Queues: converter.QueuesToResponses(queues),
		Total:  len(queues),
	}, nil
}

// SetPrimaryQueue makes the queue the primary one for its (resource,
// date), dropping the flag everywhere else in the same transaction.
func (u *queueUsecase) SetPrimaryQueue(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueResponse, error) {
	queue, err := u.findQueue(ctx, facilityID, queueID)
	if err != nil {
		return nil, err
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.queueRepo.ClearPrimary(tx, queue.ResourceID, queue.Date); err != nil {
			return err
		}
		queue.IsPrimary = true
		return u.queueRepo.Update(tx, queue)
	})
	if err != nil {
		u.log.Warnf("Failed to set primary queue %s: %+v", queueID, err)
		return nil, err
	}

	u.log.Infof("Primary queue set: id=%s, resource=%s", queueID, queue.ResourceID)
	return converter.QueueToResponse(queue), nil
}

func (u *queueUsecase) QueueSummary(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.QueueSummaryResponse, error) {
	queue, err := u.findQueue(ctx, facilityID, queueID)
	if err != nil {
		return nil, err
	}

	rows, err := u.tokenRepo.SummaryByQueue(u.db.WithContext(ctx), queue.ID)
	if err != nil {
		u.log.Warnf("Failed to summarize queue %s: %+v", queueID, err)
		return nil, err
	}

	return converter.SummaryRowsToResponse(queue.ID, rows), nil
}

func (u *queueUsecase) ListQueueTokens(ctx context.Context, facilityID, queueID uuid.UUID) (*dto.TokenListResponse, error) {
	queue, err := u.findQueue(ctx, facilityID, queueID)
	if err != nil {
		return nil, err
	}

	tokens, err := u.tokenRepo.FindByQueue(u.db.WithContext(ctx), queue.ID)
	if err != nil {
		u.log.Warnf("Failed to list tokens for queue %s: %+v", queueID, err)
		return nil, err
	}

	return &dto.TokenListResponse{
		Tokens: converter.TokensToResponses(tokens),
		Total:  len(tokens),
	}, nil
}

func (u *queueUsecase) CreateSubQueue(ctx context.Context, facilityID uuid.UUID, req *dto.CreateSubQueueRequest) (*dto.SubQueueResponse, error) {
	facility, resource, err := u.resolveResource(ctx, facilityID, req.PractitionerID)
	if err != nil {
		return nil, err
	}

	subQueue := &entity.TokenSubQueue{
		FacilityID: facility.ID,
		ResourceID: resource.ID,
		Name:       req.Name,
		Status:     entity.SubQueueStatusActive,
	}
	if err := u.subQueueRepo.Create(u.db.WithContext(ctx), subQueue); err != nil {
		u.log.Warnf("Failed to create sub-queue for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	u.log.Infof("Sub-queue created: id=%s, resource=%s", subQueue.ID, resource.ID)
	return converter.SubQueueToResponse(subQueue), nil
}

func (u *queueUsecase) ListSubQueues(ctx context.Context, facilityID, practitionerID uuid.UUID) (*dto.SubQueueListResponse, error) {
	_, resource, err := u.resolveResource(ctx, facilityID, practitionerID)
	if err != nil {
		return nil, err
	}

	subQueues, err := u.subQueueRepo.FindByResource(u.db.WithContext(ctx), resource.ID)
	if err != nil {
		u.log.Warnf("Failed to list sub-queues for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	return &dto.SubQueueListResponse{
		SubQueues: converter.SubQueuesToResponses(subQueues),
		Total:     len(subQueues),
	}, nil
}

func (u *queueUsecase) UpdateSubQueue(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.UpdateSubQueueRequest) (*dto.SubQueueResponse, error) {
	subQueue, err := u.subQueueRepo.FindByID(u.db.WithContext(ctx), subQueueID)
	if err != nil {
		u.log.Warnf("Failed to find sub-queue %s: %+v", subQueueID, err)
		return nil, err
	}
	if subQueue == nil || subQueue.FacilityID != facilityID {
		return nil, ErrSubQueueNotFound
	}

	if req.Name != "" {
		subQueue.Name = req.Name
	}
	if req.Status != "" {
		subQueue.Status = req.Status
	}
	if err := u.subQueueRepo.Update(u.db.WithContext(ctx), subQueue); err != nil {
		u.log.Warnf("Failed to update sub-queue %s: %+v", subQueueID, err)
		return nil, err
	}

	return converter.SubQueueToResponse(subQueue), nil
}

func (u *queueUsecase) CreateCategory(ctx context.Context, facilityID uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	category := &entity.TokenCategory{
		FacilityID:   facility.ID,
		ResourceType: req.ResourceType,
		Name:         req.Name,
		Shorthand:    req.Shorthand,
		Default:      req.Default,
	}
	if err := u.categoryRepo.Create(u.db.WithContext(ctx), category); err != nil {
		u.log.Warnf("Failed to create token category for facility %s: %+v", facilityID, err)
		return nil, err
	}

	u.log.Infof("Token category created: id=%s, facility=%s", category.ID, facilityID)
	return converter.CategoryToResponse(category), nil
}

func (u *queueUsecase) ListCategories(ctx context.Context, facilityID uuid.UUID) (*dto.CategoryListResponse, error) {
	categories, err := u.categoryRepo.FindByFacility(u.db.WithContext(ctx), facilityID)
	if err != nil {
		u.log.Warnf("Failed to list token categories for facility %s: %+v", facilityID, err)
		return nil, err
	}

	return &dto.CategoryListResponse{
		Categories: converter.CategoriesToResponses(categories),
		Total:      len(categories),
	}, nil
}

func (u *queueUsecase) findQueue(ctx context.Context, facilityID, queueID uuid.UUID) (*entity.TokenQueue, error) {
	queue, err := u.queueRepo.FindByID(u.db.WithContext(ctx), queueID)
	if err != nil {
		u.log.Warnf("Failed to find queue %s: %+v", queueID, err)
		return nil, err
	}
	if queue == nil || queue.FacilityID != facilityID {
		return nil, ErrQueueNotFound
	}
	return queue, nil
}

func (u *queueUsecase) resolveResource(ctx context.Context, facilityID, practitionerID uuid.UUID) (*entity.Facility, *entity.SchedulableResource, error) {
	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		u.log.Warnf("Failed to find facility %s: %+v", facilityID, err)
		return nil, nil, err
	}
	if facility == nil {
		return nil, nil, ErrFacilityNotFound
	}

	resource, err := u.registry.GetOrCreate(ctx, u.db.WithContext(ctx), facility, entity.ResourceTypePractitioner, practitionerID)
	if err != nil {
		return nil, nil, err
	}
	return facility, resource, nil
}

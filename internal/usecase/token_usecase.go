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
	ErrTokenNotFound            = errors.New("token not found")
	ErrSubQueueResourceMismatch = errors.New("sub-queue belongs to a different resource")
	ErrInvalidTokenTransition   = errors.New("token status transition not allowed")
	ErrQueueDrained             = errors.New("no tokens waiting in the queue")
	ErrQueueTargetMissing       = errors.New("either queue_id or practitioner_id and date are required")
)

// Name of the queue created automatically when a token is generated
// for a day that has none yet.
const systemQueueName = "Default"

type TokenUsecase interface {
	GenerateToken(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.GenerateTokenRequest) (*dto.TokenResponse, error)
	GetToken(ctx context.Context, facilityID, tokenID uuid.UUID) (*dto.TokenResponse, error)
	UpdateToken(ctx context.Context, facilityID, tokenID uuid.UUID, req *dto.UpdateTokenRequest) (*dto.TokenResponse, error)
	DestroyToken(ctx context.Context, facilityID, tokenID uuid.UUID, actorID *uuid.UUID) error
	SetNextToken(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.SetNextTokenRequest) (*dto.SubQueueResponse, error)
	CallNextToken(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.CallNextTokenRequest) (*dto.SubQueueResponse, error)
}

type tokenUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	lockService  service.LockService
	registry     *service.ResourceRegistry
	audit        service.AuditService
	facilityRepo repository.FacilityRepository
	patientRepo  repository.PatientRepository
	queueRepo    repository.TokenQueueRepository
	subQueueRepo repository.TokenSubQueueRepository
	categoryRepo repository.TokenCategoryRepository
	tokenRepo    repository.TokenRepository
}

func NewTokenUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	lockService service.LockService,
	registry *service.ResourceRegistry,
	audit service.AuditService,
	facilityRepo repository.FacilityRepository,
	patientRepo repository.PatientRepository,
	queueRepo repository.TokenQueueRepository,
	subQueueRepo repository.TokenSubQueueRepository,
	categoryRepo repository.TokenCategoryRepository,
	tokenRepo repository.TokenRepository,
) TokenUsecase {
	return &tokenUsecase{
		db:           db,
		log:          log,
		lockService:  lockService,
		registry:     registry,
		audit:        audit,
		facilityRepo: facilityRepo,
		patientRepo:  patientRepo,
		queueRepo:    queueRepo,
		subQueueRepo: subQueueRepo,
		categoryRepo: categoryRepo,
		tokenRepo:    tokenRepo,
	}
}

// GenerateToken issues the next number of a (queue, category) pair.
//
// The target queue is either given explicitly or resolved from a
// (practitioner, date) pair — creating a system-generated primary
// queue when the day has none. Numbering happens under the queue lock:
// number = count of tokens ever issued for the pair + 1, so numbers
// are monotonic and never reused even after cancellations.
func (u *tokenUsecase) GenerateToken(ctx context.Context, facilityID uuid.UUID, actorID *uuid.UUID, req *dto.GenerateTokenRequest) (*dto.TokenResponse, error) {
	queue, err := u.resolveQueue(ctx, facilityID, req)
	if err != nil {
		return nil, err
	}

	category, err := u.categoryRepo.FindByID(u.db.WithContext(ctx), req.CategoryID)
	if err != nil {
		u.log.Warnf("Failed to find token category %s: %+v", req.CategoryID, err)
		return nil, err
	}
	if category == nil || category.FacilityID != facilityID {
		return nil, ErrCategoryNotFound
	}

	if req.PatientID != nil {
		patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), *req.PatientID)
		if err != nil {
			return nil, err
		}
		if patient == nil {
			return nil, ErrPatientNotFound
		}
	}

	if req.SubQueueID != nil {
		subQueue, err := u.findSubQueue(ctx, facilityID, *req.SubQueueID)
		if err != nil {
			return nil, err
		}
		if subQueue.ResourceID != queue.ResourceID {
			return nil, ErrSubQueueResourceMismatch
		}
	}

	release, err := u.lockService.Acquire(ctx, service.TokenLockKey(queue.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	token := &entity.Token{
		FacilityID: facilityID,
		QueueID:    queue.ID,
		CategoryID: category.ID,
		SubQueueID: req.SubQueueID,
		PatientID:  req.PatientID,
		Status:     entity.TokenStatusCreated,
		Note:       req.Note,
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := u.tokenRepo.CountByQueueAndCategory(tx, queue.ID, category.ID)
		if err != nil {
			return err
		}
		token.Number = int(count) + 1
		if err := u.tokenRepo.Create(tx, token); err != nil {
			return err
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionTokenGenerate, "token", token.ID.String(), map[string]interface{}{
			"queue_id": queue.ID.String(),
			"number":   token.Number,
		})
	})
	if err != nil {
		u.log.Warnf("Failed to generate token for queue %s: %+v", queue.ID, err)
		return nil, err
	}

	full, err := u.tokenRepo.FindByID(u.db.WithContext(ctx), token.ID)
	if err != nil || full == nil {
		return converter.TokenToResponse(token), nil
	}

	u.log.Infof("Token generated: id=%s, queue=%s, number=%d", token.ID, queue.ID, token.Number)
	return converter.TokenToResponse(full), nil
}

func (u *tokenUsecase) GetToken(ctx context.Context, facilityID, tokenID uuid.UUID) (*dto.TokenResponse, error) {
	token, err := u.findToken(ctx, facilityID, tokenID)
	if err != nil {
		return nil, err
	}
	return converter.TokenToResponse(token), nil
}

// UpdateToken changes status, note or sub-queue routing. Status moves
// follow the CREATED -> IN_PROGRESS -> COMPLETED machine; sub-queue
// reassignment clears the previous lane's current-token back-reference.
func (u *tokenUsecase) UpdateToken(ctx context.Context, facilityID, tokenID uuid.UUID, req *dto.UpdateTokenRequest) (*dto.TokenResponse, error) {
	token, err := u.findToken(ctx, facilityID, tokenID)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		next := entity.TokenStatus(req.Status)
		if next != token.Status && !token.Status.CanTransitionTo(next) {
			return nil, ErrInvalidTokenTransition
		}
		token.Status = next
	}
	if req.Note != nil {
		token.Note = *req.Note
	}

	previousSubQueue := token.SubQueueID
	if req.SubQueueID != nil && (previousSubQueue == nil || *previousSubQueue != *req.SubQueueID) {
		subQueue, err := u.findSubQueue(ctx, facilityID, *req.SubQueueID)
		if err != nil {
			return nil, err
		}
		if subQueue.ResourceID != token.Queue.ResourceID {
			return nil, ErrSubQueueResourceMismatch
		}
		token.SubQueueID = req.SubQueueID
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.tokenRepo.Update(tx, token); err != nil {
			return err
		}
		if previousSubQueue != nil && token.SubQueueID != nil && *previousSubQueue != *token.SubQueueID {
			return u.subQueueRepo.ClearCurrentToken(tx, *previousSubQueue, token.ID)
		}
		return nil
	})
	if err != nil {
		u.log.Warnf("Failed to update token %s: %+v", tokenID, err)
		return nil, err
	}

	return converter.TokenToResponse(token), nil
}

// DestroyToken marks a token as entered in error. The number is not
// reclaimed; the token stays in the queue history.
func (u *tokenUsecase) DestroyToken(ctx context.Context, facilityID, tokenID uuid.UUID, actorID *uuid.UUID) error {
	token, err := u.findToken(ctx, facilityID, tokenID)
	if err != nil {
		return err
	}

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token.Status = entity.TokenStatusEnteredInError
		if err := u.tokenRepo.Update(tx, token); err != nil {
			return err
		}
		if token.SubQueueID != nil {
			if err := u.subQueueRepo.ClearCurrentToken(tx, *token.SubQueueID, token.ID); err != nil {
				return err
			}
		}
		return u.audit.LogAction(ctx, tx, actorID, entity.AuditActionTokenDestroy, "token", token.ID.String(), nil)
	})
	if err != nil {
		u.log.Warnf("Failed to destroy token %s: %+v", tokenID, err)
		return err
	}

	u.log.Infof("Token destroyed: id=%s", tokenID)
	return nil
}

// SetNextToken routes a specific token into a sub-queue as the one
// being served.
func (u *tokenUsecase) SetNextToken(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.SetNextTokenRequest) (*dto.SubQueueResponse, error) {
	token, err := u.findToken(ctx, facilityID, req.TokenID)
	if err != nil {
		return nil, err
	}
	subQueue, err := u.findSubQueue(ctx, facilityID, subQueueID)
	if err != nil {
		return nil, err
	}
	if subQueue.ResourceID != token.Queue.ResourceID {
		return nil, ErrSubQueueResourceMismatch
	}

	release, err := u.lockService.Acquire(ctx, service.NextTokenLockKey(token.QueueID))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := u.routeToken(ctx, token, subQueue); err != nil {
		return nil, err
	}

	updated, err := u.subQueueRepo.FindByID(u.db.WithContext(ctx), subQueue.ID)
	if err != nil || updated == nil {
		return converter.SubQueueToResponse(subQueue), nil
	}

	u.log.Infof("Token set as current: token=%s, sub_queue=%s", token.ID, subQueue.ID)
	return converter.SubQueueToResponse(updated), nil
}

// CallNextToken pops the oldest waiting token of a queue (optionally
// narrowed to one category) into a sub-queue.
func (u *tokenUsecase) CallNextToken(ctx context.Context, facilityID, subQueueID uuid.UUID, req *dto.CallNextTokenRequest) (*dto.SubQueueResponse, error) {
	queue, err := u.queueRepo.FindByID(u.db.WithContext(ctx), req.QueueID)
	if err != nil {
		u.log.Warnf("Failed to find queue %s: %+v", req.QueueID, err)
		return nil, err
	}
	if queue == nil || queue.FacilityID != facilityID {
		return nil, ErrQueueNotFound
	}

	subQueue, err := u.findSubQueue(ctx, facilityID, subQueueID)
	if err != nil {
		return nil, err
	}
	if subQueue.ResourceID != queue.ResourceID {
		return nil, ErrSubQueueResourceMismatch
	}

	release, err := u.lockService.Acquire(ctx, service.NextTokenLockKey(queue.ID))
	if err != nil {
		return nil, err
	}
	defer release()

	token, err := u.tokenRepo.FindOldestCreated(u.db.WithContext(ctx), queue.ID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrQueueDrained
	}
	token.Queue = *queue

	if err := u.routeToken(ctx, token, subQueue); err != nil {
		return nil, err
	}

	updated, err := u.subQueueRepo.FindByID(u.db.WithContext(ctx), subQueue.ID)
	if err != nil || updated == nil {
		return converter.SubQueueToResponse(subQueue), nil
	}

	u.log.Infof("Next token called: token=%s, queue=%s, sub_queue=%s", token.ID, queue.ID, subQueue.ID)
	return converter.SubQueueToResponse(updated), nil
}

// routeToken moves a token into a sub-queue and marks it in progress.
// Callers hold the queue's next-token lock.
func (u *tokenUsecase) routeToken(ctx context.Context, token *entity.Token, subQueue *entity.TokenSubQueue) error {
	if token.Status != entity.TokenStatusInProgress {
		if !token.Status.CanTransitionTo(entity.TokenStatusInProgress) {
			return ErrInvalidTokenTransition
		}
		token.Status = entity.TokenStatusInProgress
	}

	previousSubQueue := token.SubQueueID
	token.SubQueueID = &subQueue.ID

	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.tokenRepo.Update(tx, token); err != nil {
			return err
		}
		if previousSubQueue != nil && *previousSubQueue != subQueue.ID {
			if err := u.subQueueRepo.ClearCurrentToken(tx, *previousSubQueue, token.ID); err != nil {
				return err
			}
		}
		subQueue.CurrentTokenID = &token.ID
		return u.subQueueRepo.Update(tx, subQueue)
	})
}

// resolveQueue picks the explicit queue or finds/creates the primary
// queue for a (practitioner, date) pair.
func (u *tokenUsecase) resolveQueue(ctx context.Context, facilityID uuid.UUID, req *dto.GenerateTokenRequest) (*entity.TokenQueue, error) {
	if req.QueueID != nil {
		queue, err := u.queueRepo.FindByID(u.db.WithContext(ctx), *req.QueueID)
		if err != nil {
			u.log.Warnf("Failed to find queue %s: %+v", *req.QueueID, err)
			return nil, err
		}
		if queue == nil || queue.FacilityID != facilityID {
			return nil, ErrQueueNotFound
		}
		return queue, nil
	}

	if req.PractitionerID == nil || req.Date == "" {
		return nil, ErrQueueTargetMissing
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	facility, err := u.facilityRepo.FindByID(u.db.WithContext(ctx), facilityID)
	if err != nil {
		return nil, err
	}
	if facility == nil {
		return nil, ErrFacilityNotFound
	}

	resource, err := u.registry.GetOrCreate(ctx, u.db.WithContext(ctx), facility, entity.ResourceTypePractitioner, *req.PractitionerID)
	if err != nil {
		return nil, err
	}

	queue, err := u.queueRepo.FindPrimary(u.db.WithContext(ctx), resource.ID, date)
	if err != nil {
		return nil, err
	}
	if queue != nil {
		return queue, nil
	}

	queue = &entity.TokenQueue{
		FacilityID:      facility.ID,
		ResourceID:      resource.ID,
		Name:            systemQueueName,
		Date:            date,
		IsPrimary:       true,
		SystemGenerated: true,
	}
	if err := u.queueRepo.Create(u.db.WithContext(ctx), queue); err != nil {
		u.log.Warnf("Failed to create system queue for resource %s: %+v", resource.ID, err)
		return nil, err
	}

	u.log.Infof("System queue created: id=%s, resource=%s, date=%s", queue.ID, resource.ID, req.Date)
	return queue, nil
}

func (u *tokenUsecase) findToken(ctx context.Context, facilityID, tokenID uuid.UUID) (*entity.Token, error) {
	token, err := u.tokenRepo.FindByID(u.db.WithContext(ctx), tokenID)
	if err != nil {
		u.log.Warnf("Failed to find token %s: %+v", tokenID, err)
		return nil, err
	}
	if token == nil || token.FacilityID != facilityID {
		return nil, ErrTokenNotFound
	}
	return token, nil
}

func (u *tokenUsecase) findSubQueue(ctx context.Context, facilityID, subQueueID uuid.UUID) (*entity.TokenSubQueue, error) {
	subQueue, err := u.subQueueRepo.FindByID(u.db.WithContext(ctx), subQueueID)
	if err != nil {
		u.log.Warnf("Failed to find sub-queue %s: %+v", subQueueID, err)
		return nil, err
	}
	if subQueue == nil || subQueue.FacilityID != facilityID {
		return nil, ErrSubQueueNotFound
	}
	return subQueue, nil
}

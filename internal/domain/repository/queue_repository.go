package repository

import (
	"time"

	"clinic-scheduling/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenSummaryRow is one (category, status) bucket of a queue summary
type TokenSummaryRow struct {
	CategoryName string
	Status       entity.TokenStatus
	Count        int64
}

type TokenQueueRepository interface {
	Create(db *gorm.DB, queue *entity.TokenQueue) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenQueue, error)
	FindByResourceAndDate(db *gorm.DB, resourceID uuid.UUID, date time.Time) ([]entity.TokenQueue, error)
	FindPrimary(db *gorm.DB, resourceID uuid.UUID, date time.Time) (*entity.TokenQueue, error)
	// ClearPrimary drops the primary flag on every queue of the
	// (resource, date) pair.
	ClearPrimary(db *gorm.DB, resourceID uuid.UUID, date time.Time) error
	Update(db *gorm.DB, queue *entity.TokenQueue) error
}

type TokenSubQueueRepository interface {
	Create(db *gorm.DB, subQueue *entity.TokenSubQueue) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenSubQueue, error)
	FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.TokenSubQueue, error)
	Update(db *gorm.DB, subQueue *entity.TokenSubQueue) error
	// ClearCurrentToken nulls the pointer only where it still references
	// the given token.
	ClearCurrentToken(db *gorm.DB, subQueueID, tokenID uuid.UUID) error
}

type TokenCategoryRepository interface {
	Create(db *gorm.DB, category *entity.TokenCategory) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenCategory, error)
	FindByFacility(db *gorm.DB, facilityID uuid.UUID) ([]entity.TokenCategory, error)
}

type TokenRepository interface {
	Create(db *gorm.DB, token *entity.Token) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Token, error)
	// CountByQueueAndCategory counts every token ever issued for the
	// pair, including cancelled ones; numbers are never reused.
	CountByQueueAndCategory(db *gorm.DB, queueID, categoryID uuid.UUID) (int64, error)
	// FindOldestCreated returns the oldest CREATED token of the queue,
	// optionally narrowed to one category. Nil when the queue is drained.
	FindOldestCreated(db *gorm.DB, queueID uuid.UUID, categoryID *uuid.UUID) (*entity.Token, error)
	FindByQueue(db *gorm.DB, queueID uuid.UUID) ([]entity.Token, error)
	Update(db *gorm.DB, token *entity.Token) error
	SummaryByQueue(db *gorm.DB, queueID uuid.UUID) ([]TokenSummaryRow, error)
}

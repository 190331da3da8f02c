package repository

import (
	"errors"
	"time"

	"clinic-scheduling/internal/domain/entity"
	domainRepo "clinic-scheduling/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenQueueRepository struct{}

func NewTokenQueueRepository() domainRepo.TokenQueueRepository {
	return &tokenQueueRepository{}
}

func (r *tokenQueueRepository) Create(db *gorm.DB, queue *entity.TokenQueue) error {
	return db.Create(queue).Error
}

func (r *tokenQueueRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenQueue, error) {
	var queue entity.TokenQueue
	err := db.Preload("Resource").Where("id = ?", id).First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *tokenQueueRepository) FindByResourceAndDate(db *gorm.DB, resourceID uuid.UUID, date time.Time) ([]entity.TokenQueue, error) {
	var queues []entity.TokenQueue
	err := db.Where("resource_id = ? AND date = ?", resourceID, entity.DateOf(date)).
		Order("created_at ASC").
		Find(&queues).Error
	if err != nil {
		return nil, err
	}
	return queues, nil
}

func (r *tokenQueueRepository) FindPrimary(db *gorm.DB, resourceID uuid.UUID, date time.Time) (*entity.TokenQueue, error) {
	var queue entity.TokenQueue
	err := db.Where("resource_id = ? AND date = ? AND is_primary = ?", resourceID, entity.DateOf(date), true).
		First(&queue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &queue, nil
}

func (r *tokenQueueRepository) ClearPrimary(db *gorm.DB, resourceID uuid.UUID, date time.Time) error {
	return db.Model(&entity.TokenQueue{}).
		Where("resource_id = ? AND date = ?", resourceID, entity.DateOf(date)).
		Update("is_primary", false).Error
}

func (r *tokenQueueRepository) Update(db *gorm.DB, queue *entity.TokenQueue) error {
	return db.Omit("Facility", "Resource").Save(queue).Error
}

type tokenSubQueueRepository struct{}

func NewTokenSubQueueRepository() domainRepo.TokenSubQueueRepository {
	return &tokenSubQueueRepository{}
}

func (r *tokenSubQueueRepository) Create(db *gorm.DB, subQueue *entity.TokenSubQueue) error {
	return db.Create(subQueue).Error
}

func (r *tokenSubQueueRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenSubQueue, error) {
	var subQueue entity.TokenSubQueue
	err := db.Preload("CurrentToken").Where("id = ?", id).First(&subQueue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &subQueue, nil
}

func (r *tokenSubQueueRepository) FindByResource(db *gorm.DB, resourceID uuid.UUID) ([]entity.TokenSubQueue, error) {
	var subQueues []entity.TokenSubQueue
	err := db.Preload("CurrentToken").
		Where("resource_id = ?", resourceID).
		Order("name ASC").
		Find(&subQueues).Error
	if err != nil {
		return nil, err
	}
	return subQueues, nil
}

func (r *tokenSubQueueRepository) Update(db *gorm.DB, subQueue *entity.TokenSubQueue) error {
	return db.Omit("Resource", "CurrentToken").Save(subQueue).Error
}

func (r *tokenSubQueueRepository) ClearCurrentToken(db *gorm.DB, subQueueID, tokenID uuid.UUID) error {
	return db.Model(&entity.TokenSubQueue{}).
		Where("id = ? AND current_token_id = ?", subQueueID, tokenID).
		Update("current_token_id", nil).Error
}

type tokenCategoryRepository struct{}

func NewTokenCategoryRepository() domainRepo.TokenCategoryRepository {
	return &tokenCategoryRepository{}
}

func (r *tokenCategoryRepository) Create(db *gorm.DB, category *entity.TokenCategory) error {
	return db.Create(category).Error
}

func (r *tokenCategoryRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.TokenCategory, error) {
	var category entity.TokenCategory
	err := db.Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *tokenCategoryRepository) FindByFacility(db *gorm.DB, facilityID uuid.UUID) ([]entity.TokenCategory, error) {
	var categories []entity.TokenCategory
	err := db.Where("facility_id = ?", facilityID).Order("name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

type tokenRepository struct{}

func NewTokenRepository() domainRepo.TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(db *gorm.DB, token *entity.Token) error {
	return db.Create(token).Error
}

func (r *tokenRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Token, error) {
	var token entity.Token
	err := db.Preload("Queue").Preload("Category").Preload("Patient").
		Where("id = ?", id).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) CountByQueueAndCategory(db *gorm.DB, queueID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := db.Model(&entity.Token{}).
		Where("queue_id = ? AND category_id = ?", queueID, categoryID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tokenRepository) FindOldestCreated(db *gorm.DB, queueID uuid.UUID, categoryID *uuid.UUID) (*entity.Token, error) {
	query := db.Preload("Category").Preload("Patient").
		Where("queue_id = ? AND status = ?", queueID, entity.TokenStatusCreated)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}

	var token entity.Token
	err := query.Order("created_at ASC").First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) FindByQueue(db *gorm.DB, queueID uuid.UUID) ([]entity.Token, error) {
	var tokens []entity.Token
	err := db.Preload("Category").Preload("Patient").
		Where("queue_id = ?", queueID).
		Order("created_at ASC").
		Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *tokenRepository) Update(db *gorm.DB, token *entity.Token) error {
	return db.Omit("Queue", "Category", "SubQueue", "Patient", "Booking").Save(token).Error
}

func (r *tokenRepository) SummaryByQueue(db *gorm.DB, queueID uuid.UUID) ([]domainRepo.TokenSummaryRow, error) {
	var rows []domainRepo.TokenSummaryRow
	err := db.Model(&entity.Token{}).
		Select("token_categories.name AS category_name, tokens.status AS status, COUNT(*) AS count").
		Joins("JOIN token_categories ON token_categories.id = tokens.category_id").
		Where("tokens.queue_id = ?", queueID).
		Group("token_categories.name, tokens.status").
		Order("token_categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

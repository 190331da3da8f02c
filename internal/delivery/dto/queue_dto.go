package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateQueueRequest struct {
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=255"`
	Date           string    `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
}

type ListQueuesRequest struct {
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	Date           string    `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
}

type CreateSubQueueRequest struct {
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=255"`
}

type UpdateSubQueueRequest struct {
	Name   string `json:"name" validate:"omitempty,max=255"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

type CreateCategoryRequest struct {
	ResourceType string `json:"resource_type" validate:"required,oneof=practitioner location healthcare_service"`
	Name         string `json:"name" validate:"required,max=255"`
	Shorthand    string `json:"shorthand" validate:"required,max=50"`
	Default      bool   `json:"default"`
}

type GenerateTokenRequest struct {
	// Either an explicit queue or a (practitioner, date) pair; in the
	// latter case the primary queue is resolved, creating a
	// system-generated one when the day has none.
	QueueID        *uuid.UUID `json:"queue_id" validate:"omitempty"`
	PractitionerID *uuid.UUID `json:"practitioner_id" validate:"omitempty"`
	Date           string     `json:"date" validate:"omitempty,datetime=2006-01-02"` // Format: YYYY-MM-DD
	CategoryID     uuid.UUID  `json:"category_id" validate:"required"`
	PatientID      *uuid.UUID `json:"patient_id" validate:"omitempty"`
	SubQueueID     *uuid.UUID `json:"sub_queue_id" validate:"omitempty"`
	Note           string     `json:"note" validate:"omitempty,max=1000"`
}

type UpdateTokenRequest struct {
	Status     string     `json:"status" validate:"omitempty,oneof=CREATED IN_PROGRESS COMPLETED CANCELLED ENTERED_IN_ERROR"`
	Note       *string    `json:"note" validate:"omitempty,max=1000"`
	SubQueueID *uuid.UUID `json:"sub_queue_id" validate:"omitempty"`
}

type SetNextTokenRequest struct {
	TokenID uuid.UUID `json:"token_id" validate:"required"`
}

type CallNextTokenRequest struct {
	QueueID    uuid.UUID  `json:"queue_id" validate:"required"`
	CategoryID *uuid.UUID `json:"category_id" validate:"omitempty"`
}

// Response DTOs

type QueueResponse struct {
	ID              uuid.UUID `json:"id"`
	FacilityID      uuid.UUID `json:"facility_id"`
	ResourceID      uuid.UUID `json:"resource_id"`
	Name            string    `json:"name"`
	Date            string    `json:"date"` // Format: YYYY-MM-DD
	IsPrimary       bool      `json:"is_primary"`
	SystemGenerated bool      `json:"system_generated"`
	CreatedAt       time.Time `json:"created_at"`
}

type QueueListResponse struct {
	Queues []QueueResponse `json:"queues"`
	Total  int             `json:"total"`
}

type SubQueueResponse struct {
	ID           uuid.UUID      `json:"id"`
	ResourceID   uuid.UUID      `json:"resource_id"`
	Name         string         `json:"name"`
	Status       string         `json:"status"`
	CurrentToken *TokenResponse `json:"current_token,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

type SubQueueListResponse struct {
	SubQueues []SubQueueResponse `json:"sub_queues"`
	Total     int                `json:"total"`
}

type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	FacilityID   uuid.UUID `json:"facility_id"`
	ResourceType string    `json:"resource_type"`
	Name         string    `json:"name"`
	Shorthand    string    `json:"shorthand"`
	Default      bool      `json:"default"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type TokenResponse struct {
	ID         uuid.UUID        `json:"id"`
	QueueID    uuid.UUID        `json:"queue_id"`
	CategoryID uuid.UUID        `json:"category_id"`
	SubQueueID *uuid.UUID       `json:"sub_queue_id,omitempty"`
	Number     int              `json:"number"`
	Shorthand  string           `json:"shorthand,omitempty"`
	Status     string           `json:"status"`
	Note       string           `json:"note,omitempty"`
	Patient    *PatientResponse `json:"patient,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type TokenListResponse struct {
	Tokens []TokenResponse `json:"tokens"`
	Total  int             `json:"total"`
}

type QueueSummaryRow struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Count    int64  `json:"count"`
}

type QueueSummaryResponse struct {
	QueueID uuid.UUID         `json:"queue_id"`
	Rows    []QueueSummaryRow `json:"rows"`
}

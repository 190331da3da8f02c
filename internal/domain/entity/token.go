package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenStatus represents the status of a walk-in token
type TokenStatus string

const (
	TokenStatusCreated        TokenStatus = "CREATED"
	TokenStatusInProgress     TokenStatus = "IN_PROGRESS"
	TokenStatusCompleted      TokenStatus = "COMPLETED"
	TokenStatusCancelled      TokenStatus = "CANCELLED"
	TokenStatusEnteredInError TokenStatus = "ENTERED_IN_ERROR"
)

// IsValid reports whether the status is a known one
func (s TokenStatus) IsValid() bool {
	switch s {
	case TokenStatusCreated, TokenStatusInProgress, TokenStatusCompleted,
		TokenStatusCancelled, TokenStatusEnteredInError:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s TokenStatus) IsTerminal() bool {
	switch s {
	case TokenStatusCompleted, TokenStatusCancelled, TokenStatusEnteredInError:
		return true
	}
	return false
}

// CanTransitionTo validates the CREATED -> IN_PROGRESS -> COMPLETED
// machine; CANCELLED and ENTERED_IN_ERROR are reachable from any
// non-terminal state.
func (s TokenStatus) CanTransitionTo(next TokenStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case TokenStatusCancelled, TokenStatusEnteredInError:
		return true
	case TokenStatusInProgress:
		return s == TokenStatusCreated
	case TokenStatusCompleted:
		return s == TokenStatusInProgress
	}
	return false
}

// TokenQueue is a per-resource, per-date named queue. At most one queue
// per (resource, date) carries IsPrimary.
type TokenQueue struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID      uuid.UUID `gorm:"type:uuid;not null;index" json:"facility_id"`
	ResourceID      uuid.UUID `gorm:"type:uuid;not null;index" json:"resource_id"`
	Name            string    `gorm:"type:varchar(255);not null" json:"name"`
	Date            time.Time `gorm:"type:date;not null;index" json:"date"`
	IsPrimary       bool      `gorm:"not null;default:true" json:"is_primary"`
	SystemGenerated bool      `gorm:"not null;default:false" json:"system_generated"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Facility Facility            `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
	Resource SchedulableResource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}

func (TokenQueue) TableName() string {
	return "token_queues"
}

// TokenSubQueue is a routing lane under a resource (e.g. one of several
// vaccination rooms). CurrentTokenID is a weak back-reference to the
// token being served, cleared when that token moves elsewhere.
type TokenSubQueue struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"facility_id"`
	ResourceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"resource_id"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Status         string     `gorm:"type:varchar(50);not null;default:'active'" json:"status"`
	CurrentTokenID *uuid.UUID `gorm:"type:uuid" json:"current_token_id,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Resource     SchedulableResource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	CurrentToken *Token              `gorm:"foreignKey:CurrentTokenID" json:"current_token,omitempty"`
}

func (TokenSubQueue) TableName() string {
	return "token_sub_queues"
}

// Sub-queue status constants
const (
	SubQueueStatusActive   = "active"
	SubQueueStatusInactive = "inactive"
)

// TokenCategory numbers tokens independently per category within a queue
type TokenCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID   uuid.UUID `gorm:"type:uuid;not null;index" json:"facility_id"`
	ResourceType string    `gorm:"type:varchar(50);not null" json:"resource_type"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Shorthand    string    `gorm:"type:varchar(50);not null" json:"shorthand"`
	Default      bool      `gorm:"not null;default:false" json:"default"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Facility Facility `gorm:"foreignKey:FacilityID" json:"facility,omitempty"`
}

func (TokenCategory) TableName() string {
	return "token_categories"
}

// Token is a numbered walk-in entry in a queue. Number is assigned
// monotonically per (queue, category) under the queue lock and is never
// reused, even after cancellation.
type Token struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FacilityID uuid.UUID   `gorm:"type:uuid;not null;index" json:"facility_id"`
	QueueID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"queue_id"`
	CategoryID uuid.UUID   `gorm:"type:uuid;not null;index" json:"category_id"`
	SubQueueID *uuid.UUID  `gorm:"type:uuid;index" json:"sub_queue_id,omitempty"`
	PatientID  *uuid.UUID  `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	BookingID  *uuid.UUID  `gorm:"type:uuid" json:"booking_id,omitempty"`
	Number     int         `gorm:"not null" json:"number"`
	Status     TokenStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	Note       string      `gorm:"type:text" json:"note,omitempty"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Queue    TokenQueue     `gorm:"foreignKey:QueueID" json:"queue,omitempty"`
	Category TokenCategory  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	SubQueue *TokenSubQueue `gorm:"foreignKey:SubQueueID" json:"sub_queue,omitempty"`
	Patient  *Patient       `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Booking  *TokenBooking  `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
}

func (Token) TableName() string {
	return "tokens"
}

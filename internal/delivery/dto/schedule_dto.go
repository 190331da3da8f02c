package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type AvailabilityRowRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required"` // Format: HH:MM
	EndTime   string `json:"end_time" validate:"required"`   // Format: HH:MM
}

type CreateAvailabilityRequest struct {
	Name              string                   `json:"name" validate:"required,max=255"`
	SlotType          string                   `json:"slot_type" validate:"required,oneof=appointment open closed"`
	SlotSizeInMinutes int                      `json:"slot_size_in_minutes" validate:"required,min=1"`
	TokensPerSlot     int                      `json:"tokens_per_slot" validate:"required,min=1"`
	Reason            string                   `json:"reason" validate:"omitempty,max=1000"`
	Availability      []AvailabilityRowRequest `json:"availability" validate:"required,min=1,dive"`
}

type CreateScheduleRequest struct {
	PractitionerID uuid.UUID                   `json:"practitioner_id" validate:"required"`
	Name           string                      `json:"name" validate:"required,max=255"`
	ValidFrom      string                      `json:"valid_from" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	ValidTo        string                      `json:"valid_to" validate:"required,datetime=2006-01-02"`   // Format: YYYY-MM-DD
	Availabilities []CreateAvailabilityRequest `json:"availabilities" validate:"omitempty,dive"`
}

type UpdateScheduleRequest struct {
	Name      string `json:"name" validate:"omitempty,max=255"`
	ValidFrom string `json:"valid_from" validate:"omitempty,datetime=2006-01-02"` // Format: YYYY-MM-DD
	ValidTo   string `json:"valid_to" validate:"omitempty,datetime=2006-01-02"`   // Format: YYYY-MM-DD
}

type CreateExceptionRequest struct {
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	Name           string    `json:"name" validate:"required,max=255"`
	Reason         string    `json:"reason" validate:"omitempty,max=1000"`
	ValidFrom      string    `json:"valid_from" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	ValidTo        string    `json:"valid_to" validate:"required,datetime=2006-01-02"`   // Format: YYYY-MM-DD
	StartTime      string    `json:"start_time" validate:"required"`                     // Format: HH:MM
	EndTime        string    `json:"end_time" validate:"required"`                       // Format: HH:MM
}

// Response DTOs

type AvailabilityResponse struct {
	ID                uuid.UUID                `json:"id"`
	ScheduleID        uuid.UUID                `json:"schedule_id"`
	Name              string                   `json:"name"`
	SlotType          string                   `json:"slot_type"`
	SlotSizeInMinutes int                      `json:"slot_size_in_minutes"`
	TokensPerSlot     int                      `json:"tokens_per_slot"`
	Reason            string                   `json:"reason,omitempty"`
	Availability      []AvailabilityRowRequest `json:"availability"`
	CreatedAt         time.Time                `json:"created_at"`
}

type ScheduleResponse struct {
	ID             uuid.UUID              `json:"id"`
	ResourceID     uuid.UUID              `json:"resource_id"`
	Name           string                 `json:"name"`
	ValidFrom      string                 `json:"valid_from"` // Format: YYYY-MM-DD
	ValidTo        string                 `json:"valid_to"`   // Format: YYYY-MM-DD
	Availabilities []AvailabilityResponse `json:"availabilities,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

type ExceptionResponse struct {
	ID         uuid.UUID `json:"id"`
	ResourceID uuid.UUID `json:"resource_id"`
	Name       string    `json:"name"`
	Reason     string    `json:"reason,omitempty"`
	ValidFrom  string    `json:"valid_from"` // Format: YYYY-MM-DD
	ValidTo    string    `json:"valid_to"`   // Format: YYYY-MM-DD
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

type ExceptionListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
	Total      int                 `json:"total"`
}

type PractitionerResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
}

type PractitionerListResponse struct {
	Practitioners []PractitionerResponse `json:"practitioners"`
	Total         int                    `json:"total"`
}

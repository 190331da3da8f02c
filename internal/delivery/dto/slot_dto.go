package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type GetSlotsRequest struct {
	ResourceType   string    `json:"resource_type" validate:"omitempty,oneof=practitioner location healthcare_service"`
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	Date           string    `json:"date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
}

type AvailabilityStatsRequest struct {
	PractitionerID uuid.UUID `json:"practitioner_id" validate:"required"`
	FromDate       string    `json:"from_date" validate:"required,datetime=2006-01-02"` // Format: YYYY-MM-DD
	ToDate         string    `json:"to_date" validate:"required,datetime=2006-01-02"`   // Format: YYYY-MM-DD
}

// Response DTOs

type SlotResponse struct {
	ID             uuid.UUID  `json:"id"`
	ResourceID     uuid.UUID  `json:"resource_id"`
	AvailabilityID *uuid.UUID `json:"availability_id,omitempty"`
	StartDatetime  time.Time  `json:"start_datetime"`
	EndDatetime    time.Time  `json:"end_datetime"`
	Allocated      int        `json:"allocated"`
	TokensPerSlot  int        `json:"tokens_per_slot,omitempty"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}

type DayStatsResponse struct {
	Date        string `json:"date"` // Format: YYYY-MM-DD
	TotalSlots  int    `json:"total_slots"`
	BookedSlots int    `json:"booked_slots"`
}

type AvailabilityStatsResponse struct {
	Days []DayStatsResponse `json:"days"`
}

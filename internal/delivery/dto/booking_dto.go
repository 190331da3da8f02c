package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBookingRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	Note      string    `json:"note" validate:"omitempty,max=1000"`
	Tags      []string  `json:"tags" validate:"omitempty,dive,max=100"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"required,oneof=cancelled entered_in_error rescheduled"`
	Note   string `json:"note" validate:"omitempty,max=1000"`
}

type RescheduleBookingRequest struct {
	NewSlotID uuid.UUID `json:"new_slot_id" validate:"required"`
	Note      string    `json:"note" validate:"omitempty,max=1000"`
	// PreviousNote, when set, replaces the note of the booking being
	// marked rescheduled.
	PreviousNote string `json:"previous_note" validate:"omitempty,max=1000"`
}

type ListBookingsRequest struct {
	PatientID *uuid.UUID `json:"patient_id" validate:"omitempty"`
	SlotID    *uuid.UUID `json:"slot_id" validate:"omitempty"`
	Statuses  []string   `json:"statuses" validate:"omitempty,dive,oneof=proposed pending booked arrived checked_in in_consultation fulfilled cancelled noshow entered_in_error waitlist rescheduled"`
	DateFrom  string     `json:"date_from" validate:"omitempty,datetime=2006-01-02"` // Format: YYYY-MM-DD
	DateTo    string     `json:"date_to" validate:"omitempty,datetime=2006-01-02"`   // Format: YYYY-MM-DD
}

// Response DTOs

type BookingResponse struct {
	ID         uuid.UUID        `json:"id"`
	SlotID     uuid.UUID        `json:"slot_id"`
	PatientID  uuid.UUID        `json:"patient_id"`
	BookedByID *uuid.UUID       `json:"booked_by_id,omitempty"`
	BookedOn   time.Time        `json:"booked_on"`
	Status     string           `json:"status"`
	Note       string           `json:"note,omitempty"`
	Tags       []string         `json:"tags"`
	Slot       *SlotResponse    `json:"slot,omitempty"`
	Patient    *PatientResponse `json:"patient,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

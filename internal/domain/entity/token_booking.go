package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusProposed       BookingStatus = "proposed"
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusBooked         BookingStatus = "booked"
	BookingStatusArrived        BookingStatus = "arrived"
	BookingStatusCheckedIn      BookingStatus = "checked_in"
	BookingStatusInConsultation BookingStatus = "in_consultation"
	BookingStatusFulfilled      BookingStatus = "fulfilled"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusNoShow         BookingStatus = "noshow"
	BookingStatusEnteredInError BookingStatus = "entered_in_error"
	BookingStatusWaitlist       BookingStatus = "waitlist"
	BookingStatusRescheduled    BookingStatus = "rescheduled"
)

// IsValid reports whether the status is a known one
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusProposed, BookingStatusPending, BookingStatusBooked,
		BookingStatusArrived, BookingStatusCheckedIn, BookingStatusInConsultation,
		BookingStatusFulfilled, BookingStatusCancelled, BookingStatusNoShow,
		BookingStatusEnteredInError, BookingStatusWaitlist, BookingStatusRescheduled:
		return true
	}
	return false
}

// IsCancelledClass reports whether the status no longer holds a slot
// seat. Cancelled-class bookings are excluded from duplicate checks and
// the per-patient cap, and cancelling one does not touch the counter.
func (s BookingStatus) IsCancelledClass() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusRescheduled,
		BookingStatusEnteredInError, BookingStatusNoShow, BookingStatusFulfilled:
		return true
	}
	return false
}

// IsCancelReason reports whether the status is an accepted cancellation reason
func (s BookingStatus) IsCancelReason() bool {
	switch s {
	case BookingStatusCancelled, BookingStatusEnteredInError, BookingStatusRescheduled:
		return true
	}
	return false
}

// CancelledClassStatuses lists every status that does not hold a seat
func CancelledClassStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusCancelled,
		BookingStatusRescheduled,
		BookingStatusEnteredInError,
		BookingStatusNoShow,
		BookingStatusFulfilled,
	}
}

// StringArray is stored as a JSONB column
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("failed to unmarshal JSONB value:", value))
	}
	return json.Unmarshal(bytes, a)
}

// TokenBooking is a patient's claim on one seat of a slot. Every active
// (non-cancelled-class) booking is counted once in its slot's Allocated.
type TokenBooking struct {
	ID                    uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TokenSlotID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"token_slot_id"`
	PatientID             uuid.UUID     `gorm:"type:uuid;not null;index" json:"patient_id"`
	BookedByID            *uuid.UUID    `gorm:"type:uuid" json:"booked_by_id,omitempty"`
	BookedOn              time.Time     `gorm:"autoCreateTime" json:"booked_on"`
	Status                BookingStatus `gorm:"type:varchar(50);not null;index" json:"status"`
	Note                  string        `gorm:"type:text" json:"note,omitempty"`
	Tags                  StringArray   `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	AssociatedEncounterID *uuid.UUID    `gorm:"type:uuid" json:"associated_encounter_id,omitempty"`
	CreatedAt             time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	TokenSlot TokenSlot `gorm:"foreignKey:TokenSlotID" json:"token_slot,omitempty"`
	Patient   Patient   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	BookedBy  *User     `gorm:"foreignKey:BookedByID" json:"booked_by,omitempty"`
}

func (TokenBooking) TableName() string {
	return "token_bookings"
}

// BookingFilter is a domain-level filter for querying bookings.
// Used by the repository layer to avoid coupling with delivery DTOs.
type BookingFilter struct {
	PatientID *uuid.UUID
	SlotID    *uuid.UUID
	Statuses  []BookingStatus
	DateFrom  string // Format: YYYY-MM-DD
	DateTo    string // Format: YYYY-MM-DD
}

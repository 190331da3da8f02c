package entity

import (
	"time"

	"github.com/google/uuid"
)

// TokenSlot is a concrete, dated, bookable time window. Allocated
// counts active bookings and never exceeds the originating
// availability's TokensPerSlot; the counter is only mutated under the
// resource lock. Slots are soft-deleted, never removed.
type TokenSlot struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ResourceID     uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_slot_window" json:"resource_id"`
	AvailabilityID *uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_slot_window" json:"availability_id,omitempty"`
	StartDatetime  time.Time  `gorm:"not null;index;uniqueIndex:idx_slot_window" json:"start_datetime"`
	EndDatetime    time.Time  `gorm:"not null;uniqueIndex:idx_slot_window" json:"end_datetime"`
	Allocated      int        `gorm:"not null;default:0" json:"allocated"`
	Deleted        bool       `gorm:"not null;default:false;index" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Resource     SchedulableResource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Availability *Availability       `gorm:"foreignKey:AvailabilityID" json:"availability,omitempty"`
}

func (TokenSlot) TableName() string {
	return "token_slots"
}

// IsPast reports whether the slot's window has already ended
func (s *TokenSlot) IsPast(now time.Time) bool {
	return s.EndDatetime.Before(now)
}

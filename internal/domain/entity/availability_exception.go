package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityException is a date-ranged daily blackout on a resource.
// For every day in [ValidFrom, ValidTo] the [StartTime, EndTime) clock
// interval suppresses slot generation and invalidates unallocated slots.
type AvailabilityException struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index" json:"resource_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	Reason     string    `gorm:"type:text" json:"reason,omitempty"`
	ValidFrom  time.Time `gorm:"type:date;not null" json:"valid_from"`
	ValidTo    time.Time `gorm:"type:date;not null" json:"valid_to"`
	StartTime  string    `gorm:"type:time;not null" json:"start_time"`
	EndTime    string    `gorm:"type:time;not null" json:"end_time"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Resource SchedulableResource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
}

func (AvailabilityException) TableName() string {
	return "availability_exceptions"
}

// ContainsDate reports whether day falls inside the exception's date range
func (e *AvailabilityException) ContainsDate(day time.Time) bool {
	d := DateOf(day)
	return !DateOf(e.ValidFrom).After(d) && !DateOf(e.ValidTo).Before(d)
}

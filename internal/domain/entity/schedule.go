package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SlotType classifies what an availability window is used for. Only
// appointment availabilities generate bookable slots.
type SlotType string

const (
	SlotTypeAppointment SlotType = "appointment"
	SlotTypeOpen        SlotType = "open"
	SlotTypeClosed      SlotType = "closed"
)

// Schedule is a validity window for one resource. Slots are only
// generated for days inside [ValidFrom, ValidTo].
type Schedule struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ResourceID uuid.UUID `gorm:"type:uuid;not null;index" json:"resource_id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	ValidFrom  time.Time `gorm:"not null" json:"valid_from"`
	ValidTo    time.Time `gorm:"not null" json:"valid_to"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Resource       SchedulableResource `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	Availabilities []Availability      `gorm:"foreignKey:ScheduleID" json:"availabilities,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// ContainsDate reports whether day falls inside the schedule's validity window
func (s *Schedule) ContainsDate(day time.Time) bool {
	d := DateOf(day)
	return !DateOf(s.ValidFrom).After(d) && !DateOf(s.ValidTo).Before(d)
}

// AvailabilityRow is one weekly recurring window. DayOfWeek uses
// Monday=0 .. Sunday=6, times are "HH:MM" or "HH:MM:SS" strings.
type AvailabilityRow struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// AvailabilityRows is stored as a JSONB column
type AvailabilityRows []AvailabilityRow

// Value implements driver.Valuer
func (a AvailabilityRows) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *AvailabilityRows) Scan(value interface{}) error {
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

// Availability is a recurring weekly availability pattern owned by a
// schedule. Each matching weekday window is cut into slots of
// SlotSizeInMinutes, each with TokensPerSlot capacity.
type Availability struct {
	ID                uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ScheduleID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"schedule_id"`
	Name              string           `gorm:"type:varchar(255);not null" json:"name"`
	SlotType          SlotType         `gorm:"type:varchar(50);not null" json:"slot_type"`
	SlotSizeInMinutes int              `gorm:"not null" json:"slot_size_in_minutes"`
	TokensPerSlot     int              `gorm:"not null" json:"tokens_per_slot"`
	Reason            string           `gorm:"type:text" json:"reason,omitempty"`
	Availability      AvailabilityRows `gorm:"type:jsonb;not null;default:'[]'" json:"availability"`
	Deleted           bool             `gorm:"not null;default:false;index" json:"-"`
	CreatedAt         time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time        `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Schedule Schedule `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
}

func (Availability) TableName() string {
	return "availabilities"
}

// RowsForWeekday filters the weekly entries down to one weekday (Monday=0)
func (a *Availability) RowsForWeekday(dow int) []AvailabilityRow {
	var rows []AvailabilityRow
	for _, row := range a.Availability {
		if row.DayOfWeek == dow {
			rows = append(rows, row)
		}
	}
	return rows
}

// ISOWeekday converts a date to Monday=0 .. Sunday=6 numbering
func ISOWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// DateOf strips the time-of-day component
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock parses "HH:MM" or "HH:MM:SS" clock strings
func ParseClock(s string) (time.Duration, error) {
	var t time.Time
	var err error
	if len(s) == 5 {
		t, err = time.Parse("15:04", s)
	} else {
		t, err = time.Parse("15:04:05", s)
	}
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

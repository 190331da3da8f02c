package entity

import (
	"time"

	"github.com/google/uuid"
)

// Facility represents a care facility. Facility record management lives
// outside this service; the engine only resolves facilities by ID.
type Facility struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Facility) TableName() string {
	return "facilities"
}

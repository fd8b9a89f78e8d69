package types

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the identifier and timestamp columns shared by every entity.
// Embedded rather than inherited; GORM flattens it into the parent table and
// fills the timestamps on create/update.
type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

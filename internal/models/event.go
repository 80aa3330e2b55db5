package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a calendar entry shared within a family
type Event struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FamilyID    uuid.UUID  `json:"family_id" db:"family_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Location    *string    `json:"location,omitempty" db:"location"`
	StartsAt    time.Time  `json:"starts_at" db:"starts_at"`
	EndsAt      *time.Time `json:"ends_at,omitempty" db:"ends_at"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a saved link to an external caregiving resource
type Resource struct {
	ID          uuid.UUID `json:"id" db:"id"`
	FamilyID    uuid.UUID `json:"family_id" db:"family_id"`
	Title       string    `json:"title" db:"title"`
	URL         string    `json:"url" db:"url"`
	Category    string    `json:"category" db:"category"`
	Description *string   `json:"description,omitempty" db:"description"`
	AddedBy     uuid.UUID `json:"added_by" db:"added_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// LifeStory is a memory or biography entry about the elder
type LifeStory struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Year      *int      `json:"year,omitempty" db:"year"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

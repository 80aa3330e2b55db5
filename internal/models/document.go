package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is file metadata shared within a family. The bytes themselves
// live in external storage; only the reference is kept here.
type Document struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FamilyID   uuid.UUID `json:"family_id" db:"family_id"`
	Title      string    `json:"title" db:"title"`
	Category   string    `json:"category" db:"category"` // "legal", "medical", "financial", "other"
	FileURL    string    `json:"file_url" db:"file_url"`
	FileType   *string   `json:"file_type,omitempty" db:"file_type"`
	UploadedBy uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Medication is a recurring prescription tracked for the elder
type Medication struct {
	ID           uuid.UUID `json:"id" db:"id"`
	FamilyID     uuid.UUID `json:"family_id" db:"family_id"`
	Name         string    `json:"name" db:"name"`
	Dosage       *string   `json:"dosage,omitempty" db:"dosage"`
	Frequency    *string   `json:"frequency,omitempty" db:"frequency"`
	Instructions *string   `json:"instructions,omitempty" db:"instructions"`
	PrescribedBy *string   `json:"prescribed_by,omitempty" db:"prescribed_by"`
	CreatedBy    uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

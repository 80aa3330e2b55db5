package models

import (
	"time"

	"github.com/google/uuid"
)

// CarePlan is the single living care plan for a family. One row per family;
// writes upsert in place.
type CarePlan struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FamilyID      uuid.UUID `json:"family_id" db:"family_id"`
	Summary       *string   `json:"summary,omitempty" db:"summary"`
	MedicalNotes  *string   `json:"medical_notes,omitempty" db:"medical_notes"`
	DailyRoutine  *string   `json:"daily_routine,omitempty" db:"daily_routine"`
	EmergencyPlan *string   `json:"emergency_plan,omitempty" db:"emergency_plan"`
	UpdatedBy     uuid.UUID `json:"updated_by" db:"updated_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CareScenario is a what-if planning entry attached to a family's care plan
type CareScenario struct {
	ID            uuid.UUID `json:"id" db:"id"`
	FamilyID      uuid.UUID `json:"family_id" db:"family_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description,omitempty" db:"description"`
	EstimatedCost *float64  `json:"estimated_cost,omitempty" db:"estimated_cost"`
	CreatedBy     uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

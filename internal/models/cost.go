package models

import (
	"time"

	"github.com/google/uuid"
)

// Cost is a shared expense recorded against a family
type Cost struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FamilyID    uuid.UUID  `json:"family_id" db:"family_id"`
	Description string     `json:"description" db:"description"`
	Amount      float64    `json:"amount" db:"amount"`
	Category    string     `json:"category" db:"category"` // "medical", "housing", "food", "other"
	PaidBy      *uuid.UUID `json:"paid_by,omitempty" db:"paid_by"`
	IncurredOn  *time.Time `json:"incurred_on,omitempty" db:"incurred_on"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// FamilyContribution is a member's recurring share toward family costs
type FamilyContribution struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Note      *string   `json:"note,omitempty" db:"note"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

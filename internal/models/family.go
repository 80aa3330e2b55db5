package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership roles. Only CARE_MANAGER carries extra privilege (family
// settings updates); everything else in a family is shared equally.
const (
	RoleCareManager  = "CARE_MANAGER"
	RoleFamilyMember = "FAMILY_MEMBER"
)

// Invitation statuses. Nothing in the API currently moves an invitation out
// of PENDING; ACCEPTED and EXPIRED exist for data written by earlier tooling.
const (
	InvitationPending  = "PENDING"
	InvitationAccepted = "ACCEPTED"
	InvitationExpired  = "EXPIRED"
)

// Family is the care group around one elder. Every domain record hangs off a
// family via family_id; membership rows, not creation, govern access.
type Family struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`

	// Elder profile, editable by care managers only
	ElderName      *string    `json:"elder_name,omitempty" db:"elder_name"`
	ElderBirthdate *time.Time `json:"elder_birthdate,omitempty" db:"elder_birthdate"`
	ElderAddress   *string    `json:"elder_address,omitempty" db:"elder_address"`
	ElderNotes     *string    `json:"elder_notes,omitempty" db:"elder_notes"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FamilyMember represents a user's membership in a family.
// Unique on (family_id, user_id): a user belongs to a family at most once.
type FamilyMember struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// FamilyMemberDetail joins membership with the user's profile for listings
type FamilyMemberDetail struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

// FamilyInvitation invites an email address into a family. At most one
// PENDING invitation per (family_id, email).
type FamilyInvitation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"status" db:"status"`
	InvitedBy uuid.UUID `json:"invited_by" db:"invited_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

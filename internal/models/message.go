package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a post on the family message board
type Message struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MessageDetail joins a message with its author's display name
type MessageDetail struct {
	Message
	AuthorName string `json:"author_name"`
}

// Note is a freeform shared note within a family
type Note struct {
	ID        uuid.UUID `json:"id" db:"id"`
	FamilyID  uuid.UUID `json:"family_id" db:"family_id"`
	Title     string    `json:"title" db:"title"`
	Body      *string   `json:"body,omitempty" db:"body"`
	CreatedBy uuid.UUID `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

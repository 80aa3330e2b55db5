package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is site-wide content managed from the admin surface. Reads are
// public; writes require an allow-listed admin.
type BlogPost struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Slug      string    `json:"slug" db:"slug"`
	Body      string    `json:"body" db:"body"`
	Published bool      `json:"published" db:"published"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

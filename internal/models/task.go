package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is a shared care task within a family
type Task struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	FamilyID    uuid.UUID  `json:"family_id" db:"family_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description,omitempty" db:"description"`
	Category    string     `json:"category" db:"category"` // "medical", "errand", "household", "other"
	Status      string     `json:"status" db:"status"`     // "open", "in_progress", "done"
	Priority    string     `json:"priority" db:"priority"` // "low", "medium", "high"
	DueDate     *time.Time `json:"due_date,omitempty" db:"due_date"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TaskAssignment links a task to a responsible family member. Updating a
// task replaces its assignment rows wholesale.
type TaskAssignment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TaskID    uuid.UUID `json:"task_id" db:"task_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TaskDetail is a task with its current assignee IDs
type TaskDetail struct {
	Task
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

package handlers

import (
	"net/http"
	"time"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewTaskHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *TaskHandler {
	return &TaskHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type TaskRequest struct {
	Title       string      `json:"title" binding:"required"`
	Description *string     `json:"description"`
	Category    string      `json:"category"`
	Status      string      `json:"status"`
	Priority    string      `json:"priority"`
	DueDate     *time.Time  `json:"due_date"`
	AssigneeIDs []uuid.UUID `json:"assignee_ids"`
}

// ListTasks returns all tasks for the family with their assignees
func (h *TaskHandler) ListTasks(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	query := `
		SELECT id, family_id, title, description, category, status, priority, due_date, created_by, created_at, updated_at
		FROM tasks
		WHERE family_id = $1
		ORDER BY created_at DESC
	`

	rows, err := h.db.Query(c.Request.Context(), query, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query tasks"})
		return
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var t models.Task
		err := rows.Scan(
			&t.ID, &t.FamilyID, &t.Title, &t.Description, &t.Category,
			&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse task data"})
			return
		}
		tasks = append(tasks, t)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"tasks":     tasks,
		"count":     len(tasks),
	})
}

// CreateTask creates a task and its assignment rows
func (h *TaskHandler) CreateTask(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	applyTaskDefaults(&req)

	tx, err := h.db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	var task models.Task
	err = tx.QueryRow(c.Request.Context(), `
		INSERT INTO tasks (family_id, title, description, category, status, priority, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, family_id, title, description, category, status, priority, due_date, created_by, created_at, updated_at
	`, familyID, req.Title, req.Description, req.Category, req.Status, req.Priority, req.DueDate, identity.ID).Scan(
		&task.ID, &task.FamilyID, &task.Title, &task.Description, &task.Category,
		&task.Status, &task.Priority, &task.DueDate, &task.CreatedBy, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if err := insertAssignments(c, tx, task.ID, req.AssigneeIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign task"})
		return
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, models.TaskDetail{Task: task, AssigneeIDs: req.AssigneeIDs})
}

// GetTask returns a single task with its assignees
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, _, ok := h.authorizeRecord(c, "task")
	if !ok {
		return
	}

	detail, err := h.loadTask(c, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateTask updates a task and replaces its assignment rows. Membership is
// validated once up front; the delete-then-recreate below runs inside one
// transaction with no re-check per sub-step, since membership cannot change
// within a single request.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, _, ok := h.authorizeRecord(c, "task")
	if !ok {
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	applyTaskDefaults(&req)

	tx, err := h.db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	result, err := tx.Exec(c.Request.Context(), `
		UPDATE tasks
		SET title = $1, description = $2, category = $3, status = $4, priority = $5, due_date = $6, updated_at = NOW()
		WHERE id = $7
	`, req.Title, req.Description, req.Category, req.Status, req.Priority, req.DueDate, taskID)
	if err != nil || result.RowsAffected() == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	if _, err := tx.Exec(c.Request.Context(), `DELETE FROM task_assignments WHERE task_id = $1`, taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignments"})
		return
	}
	if err := insertAssignments(c, tx, taskID, req.AssigneeIDs); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update assignments"})
		return
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	detail, err := h.loadTask(c, taskID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query task"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// DeleteTask removes a task; assignments cascade
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, _, ok := h.authorizeRecord(c, "task")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM tasks WHERE id = $1`, taskID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": taskID})
}

func (h *TaskHandler) loadTask(c *gin.Context, taskID uuid.UUID) (*models.TaskDetail, error) {
	var t models.Task
	err := h.db.QueryRow(c.Request.Context(), `
		SELECT id, family_id, title, description, category, status, priority, due_date, created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, taskID).Scan(
		&t.ID, &t.FamilyID, &t.Title, &t.Description, &t.Category,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rows, err := h.db.Query(c.Request.Context(),
		`SELECT user_id FROM task_assignments WHERE task_id = $1 ORDER BY created_at ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignees := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		assignees = append(assignees, id)
	}

	return &models.TaskDetail{Task: t, AssigneeIDs: assignees}, rows.Err()
}

func insertAssignments(c *gin.Context, tx pgx.Tx, taskID uuid.UUID, assigneeIDs []uuid.UUID) error {
	for _, userID := range assigneeIDs {
		_, err := tx.Exec(c.Request.Context(), `
			INSERT INTO task_assignments (task_id, user_id)
			VALUES ($1, $2)
			ON CONFLICT (task_id, user_id) DO NOTHING
		`, taskID, userID)
		if err != nil {
			return err
		}
	}
	return nil
}

func applyTaskDefaults(req *TaskRequest) {
	if req.Category == "" {
		req.Category = "other"
	}
	if req.Status == "" {
		req.Status = "open"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
}

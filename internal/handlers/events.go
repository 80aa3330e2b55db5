package handlers

import (
	"net/http"
	"time"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewEventHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *EventHandler {
	return &EventHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type EventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at"`
}

// ListEvents returns the family calendar in chronological order
func (h *EventHandler) ListEvents(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at
		FROM events
		WHERE family_id = $1
		ORDER BY starts_at ASC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query events"})
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		err := rows.Scan(
			&e.ID, &e.FamilyID, &e.Title, &e.Description, &e.Location,
			&e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse event data"})
			return
		}
		events = append(events, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"events":    events,
		"count":     len(events),
	})
}

// CreateEvent adds a calendar entry
func (h *EventHandler) CreateEvent(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var event models.Event
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO events (family_id, title, description, location, starts_at, ends_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, family_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at
	`, familyID, req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt, identity.ID).Scan(
		&event.ID, &event.FamilyID, &event.Title, &event.Description, &event.Location,
		&event.StartsAt, &event.EndsAt, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEvent updates a calendar entry
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, _, ok := h.authorizeRecord(c, "event")
	if !ok {
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var event models.Event
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE events
		SET title = $1, description = $2, location = $3, starts_at = $4, ends_at = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, family_id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at
	`, req.Title, req.Description, req.Location, req.StartsAt, req.EndsAt, eventID).Scan(
		&event.ID, &event.FamilyID, &event.Title, &event.Description, &event.Location,
		&event.StartsAt, &event.EndsAt, &event.CreatedBy, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent removes a calendar entry
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, _, ok := h.authorizeRecord(c, "event")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM events WHERE id = $1`, eventID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": eventID})
}

package handlers

import (
	"net/http"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewMessageHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *MessageHandler {
	return &MessageHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type MessageRequest struct {
	Body string `json:"body" binding:"required"`
}

type NoteRequest struct {
	Title string  `json:"title" binding:"required"`
	Body  *string `json:"body"`
}

// ListMessages returns the family message board, newest first
func (h *MessageHandler) ListMessages(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT m.id, m.family_id, m.user_id, m.body, m.created_at, u.name
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.family_id = $1
		ORDER BY m.created_at DESC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query messages"})
		return
	}
	defer rows.Close()

	messages := []models.MessageDetail{}
	for rows.Next() {
		var m models.MessageDetail
		err := rows.Scan(&m.ID, &m.FamilyID, &m.UserID, &m.Body, &m.CreatedAt, &m.AuthorName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse message data"})
			return
		}
		messages = append(messages, m)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"messages":  messages,
		"count":     len(messages),
	})
}

// CreateMessage posts to the family message board
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var msg models.Message
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO messages (family_id, user_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, family_id, user_id, body, created_at
	`, familyID, identity.ID, req.Body).Scan(&msg.ID, &msg.FamilyID, &msg.UserID, &msg.Body, &msg.CreatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create message"})
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// DeleteMessage removes a message from the board
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	msgID, _, ok := h.authorizeRecord(c, "message")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM messages WHERE id = $1`, msgID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": msgID})
}

// ListNotes returns the family's shared notes
func (h *MessageHandler) ListNotes(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, body, created_by, created_at, updated_at
		FROM notes
		WHERE family_id = $1
		ORDER BY updated_at DESC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query notes"})
		return
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var n models.Note
		err := rows.Scan(&n.ID, &n.FamilyID, &n.Title, &n.Body, &n.CreatedBy, &n.CreatedAt, &n.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse note data"})
			return
		}
		notes = append(notes, n)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"notes":     notes,
		"count":     len(notes),
	})
}

// CreateNote adds a shared note
func (h *MessageHandler) CreateNote(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var note models.Note
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO notes (family_id, title, body, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, family_id, title, body, created_by, created_at, updated_at
	`, familyID, req.Title, req.Body, identity.ID).Scan(
		&note.ID, &note.FamilyID, &note.Title, &note.Body, &note.CreatedBy, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// UpdateNote updates a shared note
func (h *MessageHandler) UpdateNote(c *gin.Context) {
	noteID, _, ok := h.authorizeRecord(c, "note")
	if !ok {
		return
	}

	var req NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var note models.Note
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE notes
		SET title = $1, body = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, family_id, title, body, created_by, created_at, updated_at
	`, req.Title, req.Body, noteID).Scan(
		&note.ID, &note.FamilyID, &note.Title, &note.Body, &note.CreatedBy, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	c.JSON(http.StatusOK, note)
}

// DeleteNote removes a shared note
func (h *MessageHandler) DeleteNote(c *gin.Context) {
	noteID, _, ok := h.authorizeRecord(c, "note")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM notes WHERE id = $1`, noteID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": noteID})
}

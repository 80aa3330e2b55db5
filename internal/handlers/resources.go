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

type ResourceHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewResourceHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *ResourceHandler {
	return &ResourceHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type ResourceRequest struct {
	Title       string  `json:"title" binding:"required"`
	URL         string  `json:"url" binding:"required,url"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

type LifeStoryRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
	Year  *int   `json:"year"`
}

// ListResources returns the family's saved resource links
func (h *ResourceHandler) ListResources(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, url, category, description, added_by, created_at
		FROM resources
		WHERE family_id = $1
		ORDER BY category, title
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query resources"})
		return
	}
	defer rows.Close()

	resources := []models.Resource{}
	for rows.Next() {
		var r models.Resource
		err := rows.Scan(&r.ID, &r.FamilyID, &r.Title, &r.URL, &r.Category, &r.Description, &r.AddedBy, &r.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse resource data"})
			return
		}
		resources = append(resources, r)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"resources": resources,
		"count":     len(resources),
	})
}

// CreateResource saves a resource link
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	var resource models.Resource
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO resources (family_id, title, url, category, description, added_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, family_id, title, url, category, description, added_by, created_at
	`, familyID, req.Title, req.URL, req.Category, req.Description, identity.ID).Scan(
		&resource.ID, &resource.FamilyID, &resource.Title, &resource.URL,
		&resource.Category, &resource.Description, &resource.AddedBy, &resource.CreatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	c.JSON(http.StatusCreated, resource)
}

// DeleteResource removes a saved resource link
func (h *ResourceHandler) DeleteResource(c *gin.Context) {
	resourceID, _, ok := h.authorizeRecord(c, "resource")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM resources WHERE id = $1`, resourceID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete resource"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": resourceID})
}

// ListLifeStories returns the elder's life story entries
func (h *ResourceHandler) ListLifeStories(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, body, year, created_by, created_at, updated_at
		FROM life_stories
		WHERE family_id = $1
		ORDER BY year ASC NULLS LAST, created_at ASC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query life stories"})
		return
	}
	defer rows.Close()

	stories := []models.LifeStory{}
	for rows.Next() {
		var s models.LifeStory
		err := rows.Scan(&s.ID, &s.FamilyID, &s.Title, &s.Body, &s.Year, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse life story data"})
			return
		}
		stories = append(stories, s)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"stories":   stories,
		"count":     len(stories),
	})
}

// CreateLifeStory adds a life story entry
func (h *ResourceHandler) CreateLifeStory(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req LifeStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var story models.LifeStory
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO life_stories (family_id, title, body, year, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, family_id, title, body, year, created_by, created_at, updated_at
	`, familyID, req.Title, req.Body, req.Year, identity.ID).Scan(
		&story.ID, &story.FamilyID, &story.Title, &story.Body, &story.Year,
		&story.CreatedBy, &story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create life story"})
		return
	}

	c.JSON(http.StatusCreated, story)
}

// UpdateLifeStory updates a life story entry
func (h *ResourceHandler) UpdateLifeStory(c *gin.Context) {
	storyID, _, ok := h.authorizeRecord(c, "lifestory")
	if !ok {
		return
	}

	var req LifeStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var story models.LifeStory
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE life_stories
		SET title = $1, body = $2, year = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, family_id, title, body, year, created_by, created_at, updated_at
	`, req.Title, req.Body, req.Year, storyID).Scan(
		&story.ID, &story.FamilyID, &story.Title, &story.Body, &story.Year,
		&story.CreatedBy, &story.CreatedAt, &story.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update life story"})
		return
	}

	c.JSON(http.StatusOK, story)
}

// DeleteLifeStory removes a life story entry
func (h *ResourceHandler) DeleteLifeStory(c *gin.Context) {
	storyID, _, ok := h.authorizeRecord(c, "lifestory")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM life_stories WHERE id = $1`, storyID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete life story"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": storyID})
}

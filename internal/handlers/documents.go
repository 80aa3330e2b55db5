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

type DocumentHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewDocumentHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *DocumentHandler {
	return &DocumentHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type DocumentRequest struct {
	Title    string  `json:"title" binding:"required"`
	Category string  `json:"category"`
	FileURL  string  `json:"file_url" binding:"required"`
	FileType *string `json:"file_type"`
}

type MedicationRequest struct {
	Name         string  `json:"name" binding:"required"`
	Dosage       *string `json:"dosage"`
	Frequency    *string `json:"frequency"`
	Instructions *string `json:"instructions"`
	PrescribedBy *string `json:"prescribed_by"`
}

// ListDocuments returns document metadata for the family
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, category, file_url, file_type, uploaded_by, created_at
		FROM documents
		WHERE family_id = $1
		ORDER BY created_at DESC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query documents"})
		return
	}
	defer rows.Close()

	documents := []models.Document{}
	for rows.Next() {
		var d models.Document
		err := rows.Scan(&d.ID, &d.FamilyID, &d.Title, &d.Category, &d.FileURL, &d.FileType, &d.UploadedBy, &d.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse document data"})
			return
		}
		documents = append(documents, d)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"documents": documents,
		"count":     len(documents),
	})
}

// CreateDocument records document metadata
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	var doc models.Document
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO documents (family_id, title, category, file_url, file_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, family_id, title, category, file_url, file_type, uploaded_by, created_at
	`, familyID, req.Title, req.Category, req.FileURL, req.FileType, identity.ID).Scan(
		&doc.ID, &doc.FamilyID, &doc.Title, &doc.Category, &doc.FileURL, &doc.FileType, &doc.UploadedBy, &doc.CreatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create document"})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument removes document metadata
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	docID, _, ok := h.authorizeRecord(c, "document")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM documents WHERE id = $1`, docID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": docID})
}

// ListMedications returns the elder's tracked medications
func (h *DocumentHandler) ListMedications(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, name, dosage, frequency, instructions, prescribed_by, created_by, created_at, updated_at
		FROM medications
		WHERE family_id = $1
		ORDER BY name ASC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query medications"})
		return
	}
	defer rows.Close()

	medications := []models.Medication{}
	for rows.Next() {
		var m models.Medication
		err := rows.Scan(
			&m.ID, &m.FamilyID, &m.Name, &m.Dosage, &m.Frequency,
			&m.Instructions, &m.PrescribedBy, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse medication data"})
			return
		}
		medications = append(medications, m)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id":   familyID,
		"medications": medications,
		"count":       len(medications),
	})
}

// CreateMedication adds a medication entry
func (h *DocumentHandler) CreateMedication(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var med models.Medication
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO medications (family_id, name, dosage, frequency, instructions, prescribed_by, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, family_id, name, dosage, frequency, instructions, prescribed_by, created_by, created_at, updated_at
	`, familyID, req.Name, req.Dosage, req.Frequency, req.Instructions, req.PrescribedBy, identity.ID).Scan(
		&med.ID, &med.FamilyID, &med.Name, &med.Dosage, &med.Frequency,
		&med.Instructions, &med.PrescribedBy, &med.CreatedBy, &med.CreatedAt, &med.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create medication"})
		return
	}

	c.JSON(http.StatusCreated, med)
}

// UpdateMedication updates a medication entry
func (h *DocumentHandler) UpdateMedication(c *gin.Context) {
	medID, _, ok := h.authorizeRecord(c, "medication")
	if !ok {
		return
	}

	var req MedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var med models.Medication
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE medications
		SET name = $1, dosage = $2, frequency = $3, instructions = $4, prescribed_by = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, family_id, name, dosage, frequency, instructions, prescribed_by, created_by, created_at, updated_at
	`, req.Name, req.Dosage, req.Frequency, req.Instructions, req.PrescribedBy, medID).Scan(
		&med.ID, &med.FamilyID, &med.Name, &med.Dosage, &med.Frequency,
		&med.Instructions, &med.PrescribedBy, &med.CreatedBy, &med.CreatedAt, &med.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update medication"})
		return
	}

	c.JSON(http.StatusOK, med)
}

// DeleteMedication removes a medication entry
func (h *DocumentHandler) DeleteMedication(c *gin.Context) {
	medID, _, ok := h.authorizeRecord(c, "medication")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM medications WHERE id = $1`, medID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete medication"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": medID})
}

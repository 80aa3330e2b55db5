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
	"github.com/jackc/pgx/v5/pgxpool"
)

type CostHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewCostHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *CostHandler {
	return &CostHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type CostRequest struct {
	Description string     `json:"description" binding:"required"`
	Amount      float64    `json:"amount" binding:"required"`
	Category    string     `json:"category"`
	PaidBy      *uuid.UUID `json:"paid_by"`
	IncurredOn  *time.Time `json:"incurred_on"`
}

type ContributionRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Amount float64   `json:"amount" binding:"required"`
	Note   *string   `json:"note"`
}

// ListCosts returns all costs for the family plus a running total
func (h *CostHandler) ListCosts(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, description, amount, category, paid_by, incurred_on, created_by, created_at, updated_at
		FROM costs
		WHERE family_id = $1
		ORDER BY created_at DESC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query costs"})
		return
	}
	defer rows.Close()

	costs := []models.Cost{}
	var total float64
	for rows.Next() {
		var cost models.Cost
		err := rows.Scan(
			&cost.ID, &cost.FamilyID, &cost.Description, &cost.Amount, &cost.Category,
			&cost.PaidBy, &cost.IncurredOn, &cost.CreatedBy, &cost.CreatedAt, &cost.UpdatedAt,
		)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse cost data"})
			return
		}
		total += cost.Amount
		costs = append(costs, cost)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"costs":     costs,
		"count":     len(costs),
		"total":     total,
	})
}

// CreateCost records a new expense
func (h *CostHandler) CreateCost(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	var cost models.Cost
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO costs (family_id, description, amount, category, paid_by, incurred_on, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, family_id, description, amount, category, paid_by, incurred_on, created_by, created_at, updated_at
	`, familyID, req.Description, req.Amount, req.Category, req.PaidBy, req.IncurredOn, identity.ID).Scan(
		&cost.ID, &cost.FamilyID, &cost.Description, &cost.Amount, &cost.Category,
		&cost.PaidBy, &cost.IncurredOn, &cost.CreatedBy, &cost.CreatedAt, &cost.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create cost"})
		return
	}

	c.JSON(http.StatusCreated, cost)
}

// UpdateCost updates an existing expense
func (h *CostHandler) UpdateCost(c *gin.Context) {
	costID, _, ok := h.authorizeRecord(c, "cost")
	if !ok {
		return
	}

	var req CostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Category == "" {
		req.Category = "other"
	}

	var cost models.Cost
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE costs
		SET description = $1, amount = $2, category = $3, paid_by = $4, incurred_on = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING id, family_id, description, amount, category, paid_by, incurred_on, created_by, created_at, updated_at
	`, req.Description, req.Amount, req.Category, req.PaidBy, req.IncurredOn, costID).Scan(
		&cost.ID, &cost.FamilyID, &cost.Description, &cost.Amount, &cost.Category,
		&cost.PaidBy, &cost.IncurredOn, &cost.CreatedBy, &cost.CreatedAt, &cost.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cost"})
		return
	}

	c.JSON(http.StatusOK, cost)
}

// DeleteCost removes an expense
func (h *CostHandler) DeleteCost(c *gin.Context) {
	costID, _, ok := h.authorizeRecord(c, "cost")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM costs WHERE id = $1`, costID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cost"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": costID})
}

// ListContributions returns each member's recurring contribution
func (h *CostHandler) ListContributions(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, user_id, amount, note, created_at, updated_at
		FROM family_contributions
		WHERE family_id = $1
		ORDER BY created_at ASC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query contributions"})
		return
	}
	defer rows.Close()

	contributions := []models.FamilyContribution{}
	for rows.Next() {
		var fc models.FamilyContribution
		err := rows.Scan(&fc.ID, &fc.FamilyID, &fc.UserID, &fc.Amount, &fc.Note, &fc.CreatedAt, &fc.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse contribution data"})
			return
		}
		contributions = append(contributions, fc)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id":     familyID,
		"contributions": contributions,
		"count":         len(contributions),
	})
}

// UpsertContribution sets a member's contribution, replacing any previous one
func (h *CostHandler) UpsertContribution(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	tx, err := h.db.Begin(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contribution"})
		return
	}
	defer tx.Rollback(c.Request.Context())

	_, err = tx.Exec(c.Request.Context(),
		`DELETE FROM family_contributions WHERE family_id = $1 AND user_id = $2`, familyID, req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contribution"})
		return
	}

	var fc models.FamilyContribution
	err = tx.QueryRow(c.Request.Context(), `
		INSERT INTO family_contributions (family_id, user_id, amount, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, family_id, user_id, amount, note, created_at, updated_at
	`, familyID, req.UserID, req.Amount, req.Note).Scan(
		&fc.ID, &fc.FamilyID, &fc.UserID, &fc.Amount, &fc.Note, &fc.CreatedAt, &fc.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contribution"})
		return
	}

	if err := tx.Commit(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contribution"})
		return
	}

	c.JSON(http.StatusOK, fc)
}

// DeleteContribution removes a member's contribution row
func (h *CostHandler) DeleteContribution(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	result, err := h.db.Exec(c.Request.Context(),
		`DELETE FROM family_contributions WHERE family_id = $1 AND user_id = $2`, familyID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contribution"})
		return
	}
	if result.RowsAffected() == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": userID})
}

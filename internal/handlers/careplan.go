package handlers

import (
	"errors"
	"net/http"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CarePlanHandler struct {
	recordGuard
	db *pgxpool.Pool
}

func NewCarePlanHandler(db *pgxpool.Pool, az *authz.Authorizer, records *repository.RecordRepository) *CarePlanHandler {
	return &CarePlanHandler{recordGuard: recordGuard{az: az, records: records}, db: db}
}

type CarePlanRequest struct {
	Summary       *string `json:"summary"`
	MedicalNotes  *string `json:"medical_notes"`
	DailyRoutine  *string `json:"daily_routine"`
	EmergencyPlan *string `json:"emergency_plan"`
}

type ScenarioRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   *string  `json:"description"`
	EstimatedCost *float64 `json:"estimated_cost"`
}

// GetCarePlan returns the family's care plan, or 404 when none exists yet
func (h *CarePlanHandler) GetCarePlan(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	var plan models.CarePlan
	err := h.db.QueryRow(c.Request.Context(), `
		SELECT id, family_id, summary, medical_notes, daily_routine, emergency_plan, updated_by, created_at, updated_at
		FROM care_plans
		WHERE family_id = $1
	`, familyID).Scan(
		&plan.ID, &plan.FamilyID, &plan.Summary, &plan.MedicalNotes,
		&plan.DailyRoutine, &plan.EmergencyPlan, &plan.UpdatedBy, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Care plan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query care plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// PutCarePlan creates or replaces the family's care plan in place
func (h *CarePlanHandler) PutCarePlan(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CarePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var plan models.CarePlan
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO care_plans (family_id, summary, medical_notes, daily_routine, emergency_plan, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (family_id) DO UPDATE
		SET summary = $2, medical_notes = $3, daily_routine = $4, emergency_plan = $5, updated_by = $6, updated_at = NOW()
		RETURNING id, family_id, summary, medical_notes, daily_routine, emergency_plan, updated_by, created_at, updated_at
	`, familyID, req.Summary, req.MedicalNotes, req.DailyRoutine, req.EmergencyPlan, identity.ID).Scan(
		&plan.ID, &plan.FamilyID, &plan.Summary, &plan.MedicalNotes,
		&plan.DailyRoutine, &plan.EmergencyPlan, &plan.UpdatedBy, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save care plan"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ListScenarios returns the family's what-if planning entries
func (h *CarePlanHandler) ListScenarios(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, title, description, estimated_cost, created_by, created_at, updated_at
		FROM care_scenarios
		WHERE family_id = $1
		ORDER BY created_at ASC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query scenarios"})
		return
	}
	defer rows.Close()

	scenarios := []models.CareScenario{}
	for rows.Next() {
		var s models.CareScenario
		err := rows.Scan(&s.ID, &s.FamilyID, &s.Title, &s.Description, &s.EstimatedCost, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse scenario data"})
			return
		}
		scenarios = append(scenarios, s)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"scenarios": scenarios,
		"count":     len(scenarios),
	})
}

// CreateScenario adds a planning scenario
func (h *CarePlanHandler) CreateScenario(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var scenario models.CareScenario
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO care_scenarios (family_id, title, description, estimated_cost, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, family_id, title, description, estimated_cost, created_by, created_at, updated_at
	`, familyID, req.Title, req.Description, req.EstimatedCost, identity.ID).Scan(
		&scenario.ID, &scenario.FamilyID, &scenario.Title, &scenario.Description,
		&scenario.EstimatedCost, &scenario.CreatedBy, &scenario.CreatedAt, &scenario.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create scenario"})
		return
	}

	c.JSON(http.StatusCreated, scenario)
}

// UpdateScenario updates a planning scenario
func (h *CarePlanHandler) UpdateScenario(c *gin.Context) {
	scenarioID, _, ok := h.authorizeRecord(c, "scenario")
	if !ok {
		return
	}

	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	var scenario models.CareScenario
	err := h.db.QueryRow(c.Request.Context(), `
		UPDATE care_scenarios
		SET title = $1, description = $2, estimated_cost = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, family_id, title, description, estimated_cost, created_by, created_at, updated_at
	`, req.Title, req.Description, req.EstimatedCost, scenarioID).Scan(
		&scenario.ID, &scenario.FamilyID, &scenario.Title, &scenario.Description,
		&scenario.EstimatedCost, &scenario.CreatedBy, &scenario.CreatedAt, &scenario.UpdatedAt,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scenario"})
		return
	}

	c.JSON(http.StatusOK, scenario)
}

// DeleteScenario removes a planning scenario
func (h *CarePlanHandler) DeleteScenario(c *gin.Context) {
	scenarioID, _, ok := h.authorizeRecord(c, "scenario")
	if !ok {
		return
	}

	if _, err := h.db.Exec(c.Request.Context(), `DELETE FROM care_scenarios WHERE id = $1`, scenarioID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete scenario"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": scenarioID})
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
)

type FamilyHandler struct {
	families *repository.FamilyRepository
	members  *repository.MembershipRepository
}

func NewFamilyHandler(families *repository.FamilyRepository, members *repository.MembershipRepository) *FamilyHandler {
	return &FamilyHandler{families: families, members: members}
}

type CreateFamilyRequest struct {
	Name           string     `json:"name" binding:"required"`
	ElderName      *string    `json:"elder_name"`
	ElderBirthdate *time.Time `json:"elder_birthdate"`
	ElderAddress   *string    `json:"elder_address"`
	ElderNotes     *string    `json:"elder_notes"`
}

type UpdateFamilyRequest struct {
	Name           string     `json:"name" binding:"required"`
	ElderName      *string    `json:"elder_name"`
	ElderBirthdate *time.Time `json:"elder_birthdate"`
	ElderAddress   *string    `json:"elder_address"`
	ElderNotes     *string    `json:"elder_notes"`
}

// CreateFamily creates a family; the creator becomes its first CARE_MANAGER
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	var req CreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	family := models.Family{
		Name:           req.Name,
		CreatedBy:      identity.ID,
		ElderName:      req.ElderName,
		ElderBirthdate: req.ElderBirthdate,
		ElderAddress:   req.ElderAddress,
		ElderNotes:     req.ElderNotes,
	}

	if err := h.families.CreateFamily(c.Request.Context(), &family); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	c.JSON(http.StatusCreated, family)
}

// ListMyFamilies returns the families the caller belongs to
func (h *FamilyHandler) ListMyFamilies(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}

	families, err := h.families.ListFamiliesForUser(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query families"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"families": families,
		"count":    len(families),
	})
}

// GetFamily returns a single family. Authorization (member or admin
// override) has already run in middleware.
func (h *FamilyHandler) GetFamily(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	family, err := h.families.GetFamilyByID(c.Request.Context(), familyID)
	if err != nil {
		if errors.Is(err, repository.ErrFamilyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query family"})
		return
	}

	c.JSON(http.StatusOK, family)
}

// UpdateFamily updates the family name and elder profile. Gated to
// CARE_MANAGER in middleware.
func (h *FamilyHandler) UpdateFamily(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	var req UpdateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	family := models.Family{
		ID:             familyID,
		Name:           req.Name,
		ElderName:      req.ElderName,
		ElderBirthdate: req.ElderBirthdate,
		ElderAddress:   req.ElderAddress,
		ElderNotes:     req.ElderNotes,
	}

	if err := h.families.UpdateFamily(c.Request.Context(), &family); err != nil {
		if errors.Is(err, repository.ErrFamilyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update family"})
		return
	}

	updated, err := h.families.GetFamilyByID(c.Request.Context(), familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query family"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ListMembers returns the family's members with their profiles
func (h *FamilyHandler) ListMembers(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	members, err := h.members.ListMembers(c.Request.Context(), familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query members"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id": familyID,
		"members":   members,
		"count":     len(members),
	})
}

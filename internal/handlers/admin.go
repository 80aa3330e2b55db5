package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminHandler serves the /admin surface. Authorization is the admin email
// allow-list alone; family membership is never consulted here.
type AdminHandler struct {
	families *repository.FamilyRepository
	members  *repository.MembershipRepository
	users    *repository.UserRepository
}

func NewAdminHandler(families *repository.FamilyRepository, members *repository.MembershipRepository, users *repository.UserRepository) *AdminHandler {
	return &AdminHandler{families: families, members: members, users: users}
}

type AdminCreateFamilyRequest struct {
	Name      string    `json:"name" binding:"required"`
	CreatedBy uuid.UUID `json:"created_by" binding:"required"`
}

type AdminCreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// ListFamilies returns every family in the system
func (h *AdminHandler) ListFamilies(c *gin.Context) {
	families, err := h.families.ListFamilies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query families"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"families": families,
		"count":    len(families),
	})
}

// CreateFamily creates a family on behalf of a user
func (h *AdminHandler) CreateFamily(c *gin.Context) {
	var req AdminCreateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if _, err := h.users.GetUserByID(c.Request.Context(), req.CreatedBy); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query user"})
		return
	}

	family := models.Family{Name: req.Name, CreatedBy: req.CreatedBy}
	if err := h.families.CreateFamily(c.Request.Context(), &family); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create family"})
		return
	}

	c.JSON(http.StatusCreated, family)
}

// DeleteFamily removes a family and all of its records
func (h *AdminHandler) DeleteFamily(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	if err := h.families.DeleteFamily(c.Request.Context(), familyID); err != nil {
		if errors.Is(err, repository.ErrFamilyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Family not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete family"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": familyID})
}

// AddMember inserts a membership row into a family
func (h *AdminHandler) AddMember(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
		Role   string    `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = models.RoleFamilyMember
	}

	member, err := h.members.AddMember(c.Request.Context(), familyID, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User is already a member of this family"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// RemoveMember deletes a membership row from a family
func (h *AdminHandler) RemoveMember(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.members.RemoveMember(c.Request.Context(), familyID, userID); err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": userID})
}

// ListUsers returns every account in the system
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query users"})
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"users": responses,
		"count": len(responses),
	})
}

// CreateUser creates an account, optionally without a password (invite-only
// accounts get one later)
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	user := models.User{
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Name:  req.Name,
		Role:  req.Role,
	}

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		hashStr := string(hash)
		user.PasswordHash = &hashStr
	}

	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user.ToResponse())
}

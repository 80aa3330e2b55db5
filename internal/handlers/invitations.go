package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/models"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/EjMackSPD/careshare-sub001/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type InvitationHandler struct {
	db       *pgxpool.Pool
	users    *repository.UserRepository
	families *repository.FamilyRepository
	email    *service.EmailService
	log      *logrus.Logger
}

func NewInvitationHandler(db *pgxpool.Pool, users *repository.UserRepository, families *repository.FamilyRepository, email *service.EmailService, log *logrus.Logger) *InvitationHandler {
	return &InvitationHandler{db: db, users: users, families: families, email: email, log: log}
}

type InvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// ListInvitations returns the family's invitations, pending first
func (h *InvitationHandler) ListInvitations(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}

	rows, err := h.db.Query(c.Request.Context(), `
		SELECT id, family_id, email, role, status, invited_by, created_at
		FROM family_invitations
		WHERE family_id = $1
		ORDER BY status = 'PENDING' DESC, created_at DESC
	`, familyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query invitations"})
		return
	}
	defer rows.Close()

	invitations := []models.FamilyInvitation{}
	for rows.Next() {
		var inv models.FamilyInvitation
		err := rows.Scan(&inv.ID, &inv.FamilyID, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedBy, &inv.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse invitation data"})
			return
		}
		invitations = append(invitations, inv)
	}

	c.JSON(http.StatusOK, gin.H{
		"family_id":   familyID,
		"invitations": invitations,
		"count":       len(invitations),
	})
}

// CreateInvitation records a pending invitation and emails the invitee.
// At most one PENDING invitation may exist per (family, email).
func (h *InvitationHandler) CreateInvitation(c *gin.Context) {
	familyID, ok := familyParam(c)
	if !ok {
		return
	}
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req InvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := req.Role
	if role == "" {
		role = models.RoleFamilyMember
	}
	if role != models.RoleFamilyMember && role != models.RoleCareManager {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	var inv models.FamilyInvitation
	err := h.db.QueryRow(c.Request.Context(), `
		INSERT INTO family_invitations (family_id, email, role, status, invited_by)
		VALUES ($1, $2, $3, 'PENDING', $4)
		RETURNING id, family_id, email, role, status, invited_by, created_at
	`, familyID, email, role, identity.ID).Scan(
		&inv.ID, &inv.FamilyID, &inv.Email, &inv.Role, &inv.Status, &inv.InvitedBy, &inv.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A pending invitation already exists for this email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	// Notification is best effort; the invitation stands either way
	go func() {
		ctx := context.Background()
		family, err := h.families.GetFamilyByID(ctx, familyID)
		if err != nil {
			return
		}
		inviterName := identity.Email
		if inviter, err := h.users.GetUserByID(ctx, identity.ID); err == nil {
			inviterName = inviter.Name
		}
		if err := h.email.SendInvitationEmail(ctx, email, family.Name, inviterName); err != nil {
			h.log.WithError(err).Warn("invitation email failed")
		}
	}()

	c.JSON(http.StatusCreated, inv)
}

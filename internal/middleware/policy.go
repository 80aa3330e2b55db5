package middleware

import (
	"errors"
	"net/http"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const membershipKey = "authz_membership"

// RequirePolicy authorizes the request against the policy table entry for
// op. Family-scoped operations read the family from the :familyId path
// param; AdminOnly operations ignore it. The decision is re-derived from
// the store on every request, never cached.
func RequirePolicy(a *authz.Authorizer, op authz.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		familyID := uuid.Nil
		if param := c.Param("familyId"); param != "" {
			id, err := uuid.Parse(param)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID format"})
				c.Abort()
				return
			}
			familyID = id
		}

		membership, err := a.Authorize(c.Request.Context(), op, identity, familyID)
		if err != nil {
			if errors.Is(err, authz.ErrAccessDenied) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
			}
			c.Abort()
			return
		}

		if membership != nil {
			c.Set(membershipKey, membership)
		}

		c.Next()
	}
}

// GetMembership retrieves the caller's membership row from context. Absent
// for callers allowed via the admin override.
func GetMembership(c *gin.Context) (*authz.Membership, bool) {
	val, exists := c.Get(membershipKey)
	if !exists {
		return nil, false
	}
	m, ok := val.(*authz.Membership)
	return m, ok
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/EjMackSPD/careshare-sub001/internal/auth"
	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/gin-gonic/gin"
)

const identityKey = "auth_identity"

// RequireAuth validates the JWT token and stores the caller's identity in
// the request context. Every protected route passes through here first, so
// no authorization predicate ever sees an unauthenticated request.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		// Check for Bearer token format
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			if err == auth.ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		c.Set(identityKey, authz.Identity{ID: claims.UserID, Email: claims.Email})

		c.Next()
	}
}

// GetIdentity retrieves the authenticated identity from context
func GetIdentity(c *gin.Context) (authz.Identity, bool) {
	val, exists := c.Get(identityKey)
	if !exists {
		return authz.Identity{}, false
	}
	identity, ok := val.(authz.Identity)
	return identity, ok
}

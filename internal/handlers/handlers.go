package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/EjMackSPD/careshare-sub001/internal/authz"
	"github.com/EjMackSPD/careshare-sub001/internal/middleware"
	"github.com/EjMackSPD/careshare-sub001/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ownershipResolver resolves a record to its owning family.
// *repository.RecordRepository is the production implementation.
type ownershipResolver interface {
	OwningFamily(ctx context.Context, kind string, recordID uuid.UUID) (uuid.UUID, error)
}

// recordGuard implements the record-scoped authorization path: resolve the
// record to its owning family first, then check membership. A nonexistent
// record is a 404 even for callers who would have been denied on the family,
// because the family id is not known until the record is fetched.
type recordGuard struct {
	az      *authz.Authorizer
	records ownershipResolver
}

// authorizeRecord parses the :id param, resolves ownership and checks
// membership. On failure the response has already been written and ok is
// false.
func (g *recordGuard) authorizeRecord(c *gin.Context, kind string) (recordID, familyID uuid.UUID, ok bool) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, uuid.Nil, false
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return uuid.Nil, uuid.Nil, false
	}

	familyID, err = g.records.OwningFamily(c.Request.Context(), kind, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve record"})
		}
		return uuid.Nil, uuid.Nil, false
	}

	if err := g.az.AuthorizeRecordScoped(c.Request.Context(), identity, familyID); err != nil {
		if errors.Is(err, authz.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Authorization check failed"})
		}
		return uuid.Nil, uuid.Nil, false
	}

	return recordID, familyID, true
}

// familyParam parses the :familyId path param
func familyParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("familyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid family ID format"})
		return uuid.Nil, false
	}
	return id, true
}

// requireIdentity fetches the authenticated identity or writes a 401
func requireIdentity(c *gin.Context) (authz.Identity, bool) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return authz.Identity{}, false
	}
	return identity, true
}

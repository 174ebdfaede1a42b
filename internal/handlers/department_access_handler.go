package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type DepartmentAccessHandler struct {
	accessService *services.DepartmentAccessService
}

func NewDepartmentAccessHandler(accessService *services.DepartmentAccessService) *DepartmentAccessHandler {
	return &DepartmentAccessHandler{accessService: accessService}
}

// GrantAccess godoc
// @Summary Grant department access to a user
// @Description Managers may only grant access into their home department; admins anywhere. Re-granting updates the existing grant in place.
// @Tags department-access
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.GrantAccessRequest true "Grant request"
// @Success 201 {object} models.DepartmentAccess
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/department-access [post]
func (h *DepartmentAccessHandler) GrantAccess(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	// A manager can only grant access into their own department
	if !identity.IsAdmin() && !strings.EqualFold(req.DepartmentName, identity.DepartmentName) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Managers may only grant access to their own department"})
		return
	}

	access, err := h.accessService.GrantAccess(req.UserID, req.DepartmentName, req.AccessLevel, identity.Username)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, services.ErrInvalidAccessLevel), errors.Is(err, services.ErrDepartmentRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant access", "details": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, access)
}

// RevokeAccess godoc
// @Summary Revoke a department access grant
// @Description Managers may only revoke grants into their home department; admins anywhere. Revoking an already-revoked grant answers 404 instead of re-issuing the delete
// @Tags department-access
// @Produce json
// @Security SessionAuth
// @Param id path string true "Grant ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/department-access/{id} [delete]
func (h *DepartmentAccessHandler) RevokeAccess(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	revoked, err := h.accessService.RevokeAccess(identity, c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Managers may only revoke grants in their own department"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke access", "details": err.Error()})
		return
	}
	if !revoked {
		c.JSON(http.StatusNotFound, gin.H{"error": "Grant not found or already revoked"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}

// ListGrants godoc
// @Summary List department access grants
// @Description Admins see all grants; managers see their home department's
// @Tags department-access
// @Produce json
// @Security SessionAuth
// @Success 200 {array} models.DepartmentAccessResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/department-access [get]
func (h *DepartmentAccessHandler) ListGrants(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	grants, err := h.accessService.ListGrants(identity)
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list grants", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, grants)
}

// ListGrantCandidates godoc
// @Summary List users a grant could target
// @Description Excludes members of the department, who already have implicit access
// @Tags department-access
// @Produce json
// @Security SessionAuth
// @Param department query string false "Department name (admin only; managers are fixed to their own)"
// @Success 200 {array} models.UserProfile
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/department-access/candidates [get]
func (h *DepartmentAccessHandler) ListGrantCandidates(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	candidates, err := h.accessService.ListGrantCandidates(identity, c.Query("department"))
	if err != nil {
		if errors.Is(err, services.ErrNotAuthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, candidates)
}

// MyDepartments godoc
// @Summary List the departments accessible to the current user
// @Tags department-access
// @Produce json
// @Security SessionAuth
// @Success 200 {array} string
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/department-access/mine [get]
func (h *DepartmentAccessHandler) MyDepartments(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	departments, err := h.accessService.GetAccessibleDepartments(identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load departments", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, departments)
}

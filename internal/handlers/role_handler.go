package handlers

import (
	"net/http"
	"strings"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	roleService *services.RoleService
}

func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// ListRoles godoc
// @Summary List all roles
// @Tags roles
// @Produce json
// @Security SessionAuth
// @Success 200 {array} models.Role
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/roles [get]
func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.GetAllRoles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list roles", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, roles)
}

// CreateRole godoc
// @Summary Create a role
// @Tags roles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.CreateRoleRequest true "Create role request"
// @Success 201 {object} models.Role
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/roles [post]
func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req models.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	role, err := h.roleService.CreateRole(req.Name, req.Description)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Rename or redescribe a role
// @Tags roles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Role ID"
// @Param request body models.UpdateRoleRequest true "Update role request"
// @Success 200 {object} models.Role
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/roles/{id} [put]
func (h *RoleHandler) UpdateRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	role, err := h.roleService.UpdateRole(c.Param("id"), req.Name, req.Description)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
			return
		}
		if strings.Contains(err.Error(), "already exists") {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete a role
// @Description Blocked with 409 while the role is still assigned to any user
// @Tags roles
// @Produce json
// @Security SessionAuth
// @Param id path string true "Role ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/roles/{id} [delete]
func (h *RoleHandler) DeleteRole(c *gin.Context) {
	deleted, err := h.roleService.DeleteRole(c.Param("id"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete role", "details": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Role is still assigned to users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// AssignRole godoc
// @Summary Assign a role to a user
// @Description Idempotent: assigning an already-held role succeeds
// @Tags roles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param userId path string true "User ID"
// @Param request body models.AssignRoleRequest true "Role assignment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{userId}/roles [post]
func (h *RoleHandler) AssignRole(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	ok, err := h.roleService.AssignRoleToUser(c.Param("userId"), req.RoleID, identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User or role not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role assigned"})
}

// RemoveRole godoc
// @Summary Remove a role from a user
// @Description Department access grants are unrelated and never touched here
// @Tags roles
// @Produce json
// @Security SessionAuth
// @Param userId path string true "User ID"
// @Param roleId path string true "Role ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{userId}/roles/{roleId} [delete]
func (h *RoleHandler) RemoveRole(c *gin.Context) {
	ok, err := h.roleService.RemoveRoleFromUser(c.Param("userId"), c.Param("roleId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove role", "details": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "User does not hold this role"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role removed"})
}

// GetUserRoles godoc
// @Summary Get a user's roles
// @Tags roles
// @Produce json
// @Security SessionAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.UserRoleResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/users/{userId}/roles [get]
func (h *RoleHandler) GetUserRoles(c *gin.Context) {
	response, err := h.roleService.GetUserRoleResponse(c.Param("userId"))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user roles", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, response)
}

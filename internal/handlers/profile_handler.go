package handlers

import (
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *services.UserProfileService
}

func NewProfileHandler(profileService *services.UserProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetMyProfile godoc
// @Summary Get the authenticated user's profile
// @Tags profiles
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.UserProfile
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/profiles/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	profile, err := h.profileService.GetByUsername(identity.Username)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Update the authenticated user's profile
// @Description Blank fields leave the stored value untouched
// @Tags profiles
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.UpdateProfileRequest true "Profile update"
// @Success 200 {object} models.UserProfile
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	profile, err := h.profileService.UpdateSelf(identity.Username, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListUsers godoc
// @Summary List user profiles
// @Description Paginated user listing with optional search (admin and manager only)
// @Tags profiles
// @Produce json
// @Security SessionAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search by username or name"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/users [get]
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	search := c.Query("search")

	users, total, err := h.profileService.ListUsers(page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

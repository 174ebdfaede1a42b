package handlers

import (
	"errors"
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *auth.AuthService
}

func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary Authenticate against the corporate directory
// @Description Validates credentials, reconciles the local profile and starts a session. The session token is returned in the body and set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed", "details": err.Error()})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, response.Token, int(response.ExpiresIn), "/", "", false, true)
	c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary End the current session
// @Description Revokes the server-side session and clears the cookie. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.SessionCookieName); err == nil && token != "" {
		h.authService.Logout(token)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me godoc
// @Summary Get the current session identity
// @Tags auth
// @Produce json
// @Security SessionAuth
// @Success 200 {object} models.SessionIdentity
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	c.JSON(http.StatusOK, identity)
}

// DirectoryAttributes godoc
// @Summary Fetch the raw directory attribute set for a user
// @Description Diagnostic view of everything the directory returns for a credentialed user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.DirectoryAttributesRequest true "Directory credentials"
// @Success 200 {object} map[string][]string
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/auth/directory-attributes [post]
func (h *AuthHandler) DirectoryAttributes(c *gin.Context) {
	var req models.DirectoryAttributesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	attrs, err := h.authService.GetDirectoryAttributes(&req)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Directory lookup failed", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, attrs)
}

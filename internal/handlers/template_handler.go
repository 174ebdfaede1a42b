package handlers

import (
	"net/http"
	"strings"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// CreateTemplate godoc
// @Summary Create a custom-field template
// @Tags templates
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.CreateTemplateRequest true "Create template request"
// @Success 201 {object} models.Template
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	template, err := h.templateService.CreateTemplate(&req, identity.Username)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, template)
}

// ListTemplates godoc
// @Summary List templates
// @Tags templates
// @Produce json
// @Security SessionAuth
// @Param category query string false "Filter by category"
// @Success 200 {array} models.Template
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get a template
// @Tags templates
// @Produce json
// @Security SessionAuth
// @Param id path string true "Template ID"
// @Success 200 {object} models.Template
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	template, err := h.templateService.GetTemplate(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		return
	}
	c.JSON(http.StatusOK, template)
}

// UpdateTemplate godoc
// @Summary Update a template
// @Tags templates
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Template ID"
// @Param request body models.UpdateTemplateRequest true "Update template request"
// @Success 200 {object} models.Template
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Param("id"), &req, identity.Username)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update template", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, template)
}

// DeleteTemplate godoc
// @Summary Delete a template
// @Description Blocked with 409 while any card still references the template
// @Tags templates
// @Produce json
// @Security SessionAuth
// @Param id path string true "Template ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	deleted, err := h.templateService.DeleteTemplate(c.Param("id"))
	if err != nil {
		if services.IsNotFound(err) || strings.Contains(err.Error(), "not found") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete template", "details": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusConflict, gin.H{"error": "Template is still referenced by cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted"})
}

package handlers

import (
	"net/http"
	"strconv"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ScanHandler struct {
	cardService *services.CardService
	scanService *services.ScanService
}

func NewScanHandler(cardService *services.CardService, scanService *services.ScanService) *ScanHandler {
	return &ScanHandler{
		cardService: cardService,
		scanService: scanService,
	}
}

// GetScanSettings godoc
// @Summary Get a card's scan visibility settings
// @Tags scans
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {object} models.ScanSettings
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/scan-settings [get]
func (h *ScanHandler) GetScanSettings(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	settings, err := h.scanService.GetSettings(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scan settings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateScanSettings godoc
// @Summary Update a card's scan visibility settings
// @Description Requires Edit access to the card
// @Tags scans
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param request body models.UpdateScanSettingsRequest true "Scan settings"
// @Success 200 {object} models.ScanSettings
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/scan-settings [put]
func (h *ScanHandler) UpdateScanSettings(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeEdit(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req models.UpdateScanSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	settings, err := h.scanService.UpdateSettings(cardID, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save scan settings", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// GetScanHistory godoc
// @Summary List recorded anonymous scans of a card
// @Tags scans
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param limit query int false "Maximum results"
// @Success 200 {array} models.ScanResult
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/scans [get]
func (h *ScanHandler) GetScanHistory(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	results, err := h.scanService.GetScanHistory(cardID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load scan history", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

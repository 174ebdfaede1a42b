package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/excel"
	"github.com/smt-intra/asset-tag-services-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	cardService  *services.CardService
	qrService    *services.QRService
	excelService *excel.Service
}

func NewCardHandler(cardService *services.CardService, qrService *services.QRService, excelService *excel.Service) *CardHandler {
	return &CardHandler{
		cardService:  cardService,
		qrService:    qrService,
		excelService: excelService,
	}
}

// CreateCard godoc
// @Summary Create a new asset card
// @Description Creates a card owned by the authenticated user's department
// @Tags cards
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param request body models.CreateCardRequest true "Create card request"
// @Success 201 {object} models.Card
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/cards [post]
func (h *CardHandler) CreateCard(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	card, err := h.cardService.CreateCard(identity, &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, card)
}

// GetCard godoc
// @Summary Get a card with its sub-resources
// @Tags cards
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {object} models.Card
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id} [get]
func (h *CardHandler) GetCard(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	card, err := h.cardService.GetCard(identity, c.Param("id"))
	if err != nil {
		h.respondCardError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// UpdateCard godoc
// @Summary Update a card
// @Description Requires Edit access to the owning department. Ownership attribution is preserved.
// @Tags cards
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param request body models.UpdateCardRequest true "Update card request"
// @Success 200 {object} models.Card
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id} [put]
func (h *CardHandler) UpdateCard(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	var req models.UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	card, err := h.cardService.UpdateCard(identity, c.Param("id"), &req)
	if err != nil {
		h.respondCardError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// DeleteCard godoc
// @Summary Delete a card and its sub-resources
// @Tags cards
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id} [delete]
func (h *CardHandler) DeleteCard(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if err := h.cardService.DeleteCard(identity, c.Param("id")); err != nil {
		h.respondCardError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted"})
}

// ListCards godoc
// @Summary List visible cards
// @Description Admins see all cards; everyone else sees cards of their accessible departments
// @Tags cards
// @Produce json
// @Security SessionAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Search by product name or code"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/cards [get]
func (h *CardHandler) ListCards(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))
	search := c.Query("search")

	cards, total, err := h.cardService.ListCards(identity, page, pageSize, search)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list cards", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":      cards,
		"pagination": utils.CalculatePaginationInfo(int(total), page, pageSize),
	})
}

// GetCardQR godoc
// @Summary Render the printable QR tag for a card
// @Tags cards
// @Produce png
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param size query int false "Image edge in pixels"
// @Success 200 {file} binary
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/qr [get]
func (h *CardHandler) GetCardQR(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		h.respondCardError(c, err)
		return
	}

	size, _ := strconv.Atoi(c.Query("size"))
	png, err := h.qrService.GenerateCardTag(cardID, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render QR tag", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=card_%s.png", cardID))
	c.Data(http.StatusOK, "image/png", png)
}

// ExportCards godoc
// @Summary Export visible cards to Excel
// @Tags cards
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security SessionAuth
// @Success 200 {file} binary
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/v1/cards/export [get]
func (h *CardHandler) ExportCards(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	cards, err := h.cardService.ListForExport(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cards", "details": err.Error()})
		return
	}

	data, filename, err := h.excelService.ExportCards(cards)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export", "details": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// respondCardError maps service errors to HTTP statuses
func (h *CardHandler) respondCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCardAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this card"})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Card operation failed", "details": err.Error()})
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves unauthenticated QR scan views
type PublicHandler struct {
	cardService *services.CardService
}

func NewPublicHandler(cardService *services.CardService) *PublicHandler {
	return &PublicHandler{cardService: cardService}
}

// ScanCard godoc
// @Summary Public view of a scanned card
// @Description Anonymous endpoint behind the QR tag. Private, archived or QR-disabled cards answer 404; the scan settings control which fields appear.
// @Tags public
// @Produce json
// @Param id path string true "Card ID"
// @Success 200 {object} models.PublicCardResponse
// @Failure 404 {object} map[string]interface{}
// @Router /public/cards/{id} [get]
func (h *PublicHandler) ScanCard(c *gin.Context) {
	resp, err := h.cardService.PublicView(c.Param("id"), c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// Hidden cards are indistinguishable from missing ones
		if errors.Is(err, services.ErrCardNotPublic) || services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load card"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

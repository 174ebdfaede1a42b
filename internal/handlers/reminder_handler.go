package handlers

import (
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReminderHandler struct {
	cardService     *services.CardService
	reminderService *services.MaintenanceReminderService
}

func NewReminderHandler(cardService *services.CardService, reminderService *services.MaintenanceReminderService) *ReminderHandler {
	return &ReminderHandler{
		cardService:     cardService,
		reminderService: reminderService,
	}
}

// CreateReminder godoc
// @Summary Schedule a maintenance reminder on a card
// @Description Requires Edit access to the card
// @Tags reminders
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param request body models.CreateReminderRequest true "Reminder"
// @Success 201 {object} models.MaintenanceReminder
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/reminders [post]
func (h *ReminderHandler) CreateReminder(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeEdit(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req models.CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	reminder, err := h.reminderService.CreateReminder(cardID, &req, identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminder", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// ListReminders godoc
// @Summary List reminders on a card
// @Tags reminders
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {array} models.MaintenanceReminder
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/reminders [get]
func (h *ReminderHandler) ListReminders(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	reminders, err := h.reminderService.GetRemindersByCard(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reminders", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reminders)
}

// CompleteReminder godoc
// @Summary Mark a reminder done
// @Tags reminders
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param reminderId path string true "Reminder ID"
// @Success 200 {object} models.MaintenanceReminder
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/reminders/{reminderId}/complete [post]
func (h *ReminderHandler) CompleteReminder(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if _, err := h.cardService.AuthorizeEdit(identity, c.Param("id")); err != nil {
		respondAccessError(c, err)
		return
	}

	reminder, err := h.reminderService.CompleteReminder(c.Param("reminderId"), identity.Username)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete reminder", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// DeleteReminder godoc
// @Summary Delete a reminder
// @Tags reminders
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param reminderId path string true "Reminder ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/reminders/{reminderId} [delete]
func (h *ReminderHandler) DeleteReminder(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if _, err := h.cardService.AuthorizeEdit(identity, c.Param("id")); err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.reminderService.DeleteReminder(c.Param("reminderId")); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Reminder not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reminder", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted"})
}

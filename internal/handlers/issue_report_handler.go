package handlers

import (
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"

	"github.com/gin-gonic/gin"
)

type IssueReportHandler struct {
	cardService  *services.CardService
	issueService *services.IssueReportService
}

func NewIssueReportHandler(cardService *services.CardService, issueService *services.IssueReportService) *IssueReportHandler {
	return &IssueReportHandler{
		cardService:  cardService,
		issueService: issueService,
	}
}

// ReportIssue godoc
// @Summary Report an issue on a card
// @Tags issues
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param request body models.CreateIssueRequest true "Issue report"
// @Success 201 {object} models.IssueReport
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/issues [post]
func (h *IssueReportHandler) ReportIssue(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	var req models.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	issue, err := h.issueService.ReportIssue(cardID, &req, identity.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report issue", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, issue)
}

// ListIssues godoc
// @Summary List issues on a card
// @Tags issues
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {array} models.IssueReport
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/issues [get]
func (h *IssueReportHandler) ListIssues(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	issues, err := h.issueService.GetIssuesByCard(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list issues", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, issues)
}

// ResolveIssue godoc
// @Summary Resolve an open issue
// @Description Requires Edit access to the card. Resolving twice is a no-op.
// @Tags issues
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param issueId path string true "Issue ID"
// @Success 200 {object} models.IssueReport
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/issues/{issueId}/resolve [post]
func (h *IssueReportHandler) ResolveIssue(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if _, err := h.cardService.AuthorizeEdit(identity, c.Param("id")); err != nil {
		respondAccessError(c, err)
		return
	}

	issue, err := h.issueService.ResolveIssue(c.Param("issueId"), identity.Username)
	if err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve issue", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, issue)
}

// DeleteIssue godoc
// @Summary Delete an issue report
// @Tags issues
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param issueId path string true "Issue ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/issues/{issueId} [delete]
func (h *IssueReportHandler) DeleteIssue(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	if _, err := h.cardService.AuthorizeEdit(identity, c.Param("id")); err != nil {
		respondAccessError(c, err)
		return
	}

	if err := h.issueService.DeleteIssue(c.Param("issueId")); err != nil {
		if services.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted"})
}

package handlers

import (
	"fmt"
	"net/http"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CardDocumentHandler struct {
	cardService   *services.CardService
	documentRepo  *repository.CardDocumentRepository
	storageClient *storage.Client
}

func NewCardDocumentHandler(cardService *services.CardService, documentRepo *repository.CardDocumentRepository, storageClient *storage.Client) *CardDocumentHandler {
	return &CardDocumentHandler{
		cardService:   cardService,
		documentRepo:  documentRepo,
		storageClient: storageClient,
	}
}

// UploadDocument godoc
// @Summary Attach a document to a card
// @Description Uploads the file to the storage service and records its URL. Requires Edit access.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param file formData file true "Document file"
// @Success 201 {object} models.CardDocument
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/documents [post]
func (h *CardDocumentHandler) UploadDocument(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	card, err := h.cardService.AuthorizeEdit(identity, cardID)
	if err != nil {
		respondAccessError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file", "details": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file", "details": err.Error()})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	folder := fmt.Sprintf("cards/%s", card.ID)

	storedURL, err := h.storageClient.Upload(c.Request.Context(), folder, fileHeader.Filename, contentType, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "File storage upload failed", "details": err.Error()})
		return
	}

	doc := &models.CardDocument{
		CardID:      card.ID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		FileSize:    fileHeader.Size,
		StorageURL:  storedURL,
		UploadedBy:  identity.Username,
	}
	if err := h.documentRepo.Create(doc); err != nil {
		// The blob is already stored; try to clean it up before failing
		if delErr := h.storageClient.Delete(c.Request.Context(), storedURL); delErr != nil {
			logrus.Warnf("Failed to remove orphaned blob %s: %v", storedURL, delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListDocuments godoc
// @Summary List documents attached to a card
// @Tags documents
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Success 200 {array} models.CardDocument
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/documents [get]
func (h *CardDocumentHandler) ListDocuments(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeView(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	docs, err := h.documentRepo.GetByCard(cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// DeleteDocument godoc
// @Summary Remove a document from a card
// @Description Deletes the record; the stored blob delete is best-effort
// @Tags documents
// @Produce json
// @Security SessionAuth
// @Param id path string true "Card ID"
// @Param docId path string true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/v1/cards/{id}/documents/{docId} [delete]
func (h *CardDocumentHandler) DeleteDocument(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	cardID := c.Param("id")

	if _, err := h.cardService.AuthorizeEdit(identity, cardID); err != nil {
		respondAccessError(c, err)
		return
	}

	doc, err := h.documentRepo.GetByID(c.Param("docId"))
	if err != nil || doc.CardID != cardID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	if err := h.documentRepo.Delete(doc.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document", "details": err.Error()})
		return
	}

	// A dangling blob is acceptable, a failed document delete is not
	if err := h.storageClient.Delete(c.Request.Context(), doc.StorageURL); err != nil {
		logrus.Warnf("Failed to delete stored blob %s: %v", doc.StorageURL, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// respondAccessError maps card authorization errors to HTTP statuses
func respondAccessError(c *gin.Context, err error) {
	switch {
	case err == services.ErrCardAccessDenied:
		c.JSON(http.StatusForbidden, gin.H{"error": "No access to this card"})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Card lookup failed", "details": err.Error()})
	}
}

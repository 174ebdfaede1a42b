package repository

import (
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type CardDocumentRepository struct {
	db *gorm.DB
}

func NewCardDocumentRepository(db *gorm.DB) *CardDocumentRepository {
	return &CardDocumentRepository{db: db}
}

// Create creates a document record
func (r *CardDocumentRepository) Create(doc *models.CardDocument) error {
	return r.db.Create(doc).Error
}

// GetByID retrieves a document by ID
func (r *CardDocumentRepository) GetByID(id string) (*models.CardDocument, error) {
	var doc models.CardDocument
	err := r.db.First(&doc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetByCard returns all documents attached to a card
func (r *CardDocumentRepository) GetByCard(cardID string) ([]models.CardDocument, error) {
	var docs []models.CardDocument
	err := r.db.Where("card_id = ?", cardID).Order("created_at").Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes a document record
func (r *CardDocumentRepository) Delete(id string) error {
	return r.db.Delete(&models.CardDocument{}, "id = ?", id).Error
}

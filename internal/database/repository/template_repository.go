package repository

import (
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create creates a template
func (r *TemplateRepository) Create(template *models.Template) error {
	return r.db.Create(template).Error
}

// Update persists all fields of an existing template
func (r *TemplateRepository) Update(template *models.Template) error {
	return r.db.Save(template).Error
}

// GetByID retrieves a template by ID
func (r *TemplateRepository) GetByID(id string) (*models.Template, error) {
	var template models.Template
	err := r.db.First(&template, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// GetAll returns all templates, optionally filtered by category
func (r *TemplateRepository) GetAll(category string) ([]models.Template, error) {
	var templates []models.Template
	query := r.db.Order("name")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete removes a template
func (r *TemplateRepository) Delete(id string) error {
	return r.db.Delete(&models.Template{}, "id = ?", id).Error
}

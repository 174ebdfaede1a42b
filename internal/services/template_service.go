package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
)

type TemplateService struct {
	templateRepo *repository.TemplateRepository
	cardRepo     *repository.CardRepository
}

func NewTemplateService(templateRepo *repository.TemplateRepository, cardRepo *repository.CardRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		cardRepo:     cardRepo,
	}
}

// CreateTemplate creates a reusable field-schema definition
func (s *TemplateService) CreateTemplate(req *models.CreateTemplateRequest, createdBy string) (*models.Template, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("template name is required")
	}

	template := &models.Template{
		Name:      name,
		Category:  req.Category,
		Fields:    req.Fields,
		CreatedBy: createdBy,
		UpdatedBy: createdBy,
	}
	if err := s.templateRepo.Create(template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

// UpdateTemplate modifies a template with updater attribution
func (s *TemplateService) UpdateTemplate(id string, req *models.UpdateTemplateRequest, updatedBy string) (*models.Template, error) {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		template.Name = strings.TrimSpace(req.Name)
	}
	if req.Category != "" {
		template.Category = req.Category
	}
	if len(req.Fields) > 0 {
		template.Fields = req.Fields
	}
	template.UpdatedBy = updatedBy

	if err := s.templateRepo.Update(template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return template, nil
}

// GetTemplate retrieves a template by ID
func (s *TemplateService) GetTemplate(id string) (*models.Template, error) {
	return s.templateRepo.GetByID(id)
}

// ListTemplates returns templates, optionally filtered by category
func (s *TemplateService) ListTemplates(category string) ([]models.Template, error) {
	return s.templateRepo.GetAll(category)
}

// DeleteTemplate removes a template. Returns false without error while
// any card's custom-fields blob still references the template id.
func (s *TemplateService) DeleteTemplate(id string) (bool, error) {
	if _, err := s.templateRepo.GetByID(id); err != nil {
		return false, err
	}

	count, err := s.cardRepo.CountCustomFieldsContaining(id)
	if err != nil {
		return false, fmt.Errorf("failed to check template references: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := s.templateRepo.Delete(id); err != nil {
		return false, fmt.Errorf("failed to delete template: %w", err)
	}
	return true, nil
}

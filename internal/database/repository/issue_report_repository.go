package repository

import (
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type IssueReportRepository struct {
	db *gorm.DB
}

func NewIssueReportRepository(db *gorm.DB) *IssueReportRepository {
	return &IssueReportRepository{db: db}
}

// Create creates an issue report
func (r *IssueReportRepository) Create(issue *models.IssueReport) error {
	return r.db.Create(issue).Error
}

// Update persists all fields of an existing issue
func (r *IssueReportRepository) Update(issue *models.IssueReport) error {
	return r.db.Save(issue).Error
}

// GetByID retrieves an issue by ID
func (r *IssueReportRepository) GetByID(id string) (*models.IssueReport, error) {
	var issue models.IssueReport
	err := r.db.First(&issue, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// GetByCard returns all issues on a card, newest first
func (r *IssueReportRepository) GetByCard(cardID string) ([]models.IssueReport, error) {
	var issues []models.IssueReport
	err := r.db.Where("card_id = ?", cardID).Order("created_at DESC").Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

// Delete removes an issue
func (r *IssueReportRepository) Delete(id string) error {
	return r.db.Delete(&models.IssueReport{}, "id = ?", id).Error
}

package repository

import (
	"errors"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type ScanRepository struct {
	db *gorm.DB
}

func NewScanRepository(db *gorm.DB) *ScanRepository {
	return &ScanRepository{db: db}
}

// GetSettingsByCard returns the scan settings for a card, or nil when
// none have been saved yet
func (r *ScanRepository) GetSettingsByCard(cardID string) (*models.ScanSettings, error) {
	var settings models.ScanSettings
	err := r.db.Where("card_id = ?", cardID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings creates or updates the scan settings row for a card
func (r *ScanRepository) SaveSettings(settings *models.ScanSettings) error {
	return r.db.Save(settings).Error
}

// CreateResult records a scan result
func (r *ScanRepository) CreateResult(result *models.ScanResult) error {
	return r.db.Create(result).Error
}

// GetResultsByCard returns scan results for a card, newest first
func (r *ScanRepository) GetResultsByCard(cardID string, limit int) ([]models.ScanResult, error) {
	var results []models.ScanResult
	query := r.db.Where("card_id = ?", cardID).Order("scanned_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

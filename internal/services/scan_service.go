package services

import (
	"fmt"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
)

type ScanService struct {
	scanRepo *repository.ScanRepository
}

func NewScanService(scanRepo *repository.ScanRepository) *ScanService {
	return &ScanService{scanRepo: scanRepo}
}

// GetSettings returns a card's scan settings, falling back to the
// everything-visible defaults when none were saved yet.
func (s *ScanService) GetSettings(cardID string) (*models.ScanSettings, error) {
	settings, err := s.scanRepo.GetSettingsByCard(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan settings: %w", err)
	}
	if settings == nil {
		return &models.ScanSettings{
			CardID:           cardID,
			ShowOwner:        true,
			ShowDocuments:    true,
			ShowCustomFields: true,
		}, nil
	}
	return settings, nil
}

// UpdateSettings applies a partial scan-settings update, creating the
// row on first save.
func (s *ScanService) UpdateSettings(cardID string, req *models.UpdateScanSettingsRequest) (*models.ScanSettings, error) {
	settings, err := s.GetSettings(cardID)
	if err != nil {
		return nil, err
	}

	if req.ShowOwner != nil {
		settings.ShowOwner = *req.ShowOwner
	}
	if req.ShowDocuments != nil {
		settings.ShowDocuments = *req.ShowDocuments
	}
	if req.ShowCustomFields != nil {
		settings.ShowCustomFields = *req.ShowCustomFields
	}
	if req.RedirectURL != "" {
		settings.RedirectURL = req.RedirectURL
	}

	if err := s.scanRepo.SaveSettings(settings); err != nil {
		return nil, fmt.Errorf("failed to save scan settings: %w", err)
	}
	return settings, nil
}

// GetScanHistory returns recorded anonymous scans of a card, most
// recent first
func (s *ScanService) GetScanHistory(cardID string, limit int) ([]models.ScanResult, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return s.scanRepo.GetResultsByCard(cardID, limit)
}

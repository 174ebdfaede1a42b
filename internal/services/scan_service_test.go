package services

import (
	"testing"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

func newScanService(t *testing.T) (*ScanService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewScanService(repository.NewScanRepository(db)), db
}

func TestGetSettingsDefaultsToEverythingVisible(t *testing.T) {
	svc, db := newScanService(t)
	card := reminderCard(t, db)

	settings, err := svc.GetSettings(card.ID)
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if !settings.ShowOwner || !settings.ShowDocuments || !settings.ShowCustomFields {
		t.Errorf("expected everything-visible defaults, got %+v", settings)
	}
	if settings.CardID != card.ID {
		t.Errorf("defaults must be bound to the card, got %q", settings.CardID)
	}
}

func TestUpdateSettingsAppliesPartialChanges(t *testing.T) {
	svc, db := newScanService(t)
	card := reminderCard(t, db)

	hide := false
	settings, err := svc.UpdateSettings(card.ID, &models.UpdateScanSettingsRequest{
		ShowOwner:   &hide,
		RedirectURL: "https://intranet.example.com/assets",
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if settings.ShowOwner {
		t.Error("expected owner hidden")
	}
	if !settings.ShowDocuments || !settings.ShowCustomFields {
		t.Error("untouched flags must keep their defaults")
	}

	// A second partial update must not disturb the earlier change
	settings, err = svc.UpdateSettings(card.ID, &models.UpdateScanSettingsRequest{
		ShowDocuments: &hide,
	})
	if err != nil {
		t.Fatalf("second UpdateSettings: %v", err)
	}
	if settings.ShowOwner || settings.ShowDocuments {
		t.Errorf("partial update regressed earlier state: %+v", settings)
	}
	if settings.RedirectURL != "https://intranet.example.com/assets" {
		t.Errorf("redirect URL lost on later update: %q", settings.RedirectURL)
	}

	var count int64
	if err := db.Model(&models.ScanSettings{}).Where("card_id = ?", card.ID).Count(&count).Error; err != nil {
		t.Fatalf("count settings rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one settings row per card, got %d", count)
	}
}

func TestGetScanHistoryOrdersAndLimits(t *testing.T) {
	svc, db := newScanService(t)
	card := reminderCard(t, db)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		result := &models.ScanResult{
			CardID:    card.ID,
			ScannedAt: base.Add(time.Duration(i) * time.Minute),
			UserAgent: "ua",
			IPAddress: "10.0.0.1",
		}
		if err := db.Create(result).Error; err != nil {
			t.Fatalf("create scan result: %v", err)
		}
	}

	results, err := svc.GetScanHistory(card.ID, 3)
	if err != nil {
		t.Fatalf("GetScanHistory: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected limit honored, got %d results", len(results))
	}
	if results[0].ScannedAt.Before(results[1].ScannedAt) {
		t.Error("expected most recent scan first")
	}

	// Out-of-range limits fall back to the default
	results, err = svc.GetScanHistory(card.ID, 0)
	if err != nil {
		t.Fatalf("GetScanHistory default limit: %v", err)
	}
	if len(results) != 5 {
		t.Errorf("expected all 5 scans under the default limit, got %d", len(results))
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanSettings controls what an anonymous scan of a card's QR tag reveals
type ScanSettings struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	CardID           string    `json:"card_id" gorm:"not null;unique;index;type:uuid"`
	ShowOwner        bool      `json:"show_owner" gorm:"default:true"`
	ShowDocuments    bool      `json:"show_documents" gorm:"default:true"`
	ShowCustomFields bool      `json:"show_custom_fields" gorm:"default:true"`
	RedirectURL      string    `json:"redirect_url" gorm:"type:varchar(500)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ScanSettings model
func (ScanSettings) TableName() string {
	return "scan_settings"
}

// BeforeCreate assigns the id when the database default does not
func (s *ScanSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// UpdateScanSettingsRequest represents the request to update scan settings
type UpdateScanSettingsRequest struct {
	ShowOwner        *bool  `json:"show_owner"`
	ShowDocuments    *bool  `json:"show_documents"`
	ShowCustomFields *bool  `json:"show_custom_fields"`
	RedirectURL      string `json:"redirect_url"`
}

// ScanResult records one anonymous scan of a card's QR tag
type ScanResult struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CardID    string    `json:"card_id" gorm:"not null;index;type:uuid"`
	ScannedAt time.Time `json:"scanned_at"`
	UserAgent string    `json:"user_agent" gorm:"type:varchar(500)"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ScanResult model
func (ScanResult) TableName() string {
	return "scan_results"
}

// BeforeCreate assigns the id when the database default does not
func (s *ScanResult) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

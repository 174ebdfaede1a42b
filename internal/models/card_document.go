package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardDocument is a document attached to a card. The bytes live in the
// external file-storage service; only the returned URL is kept here.
type CardDocument struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	CardID      string    `json:"card_id" gorm:"not null;index;type:uuid"`
	FileName    string    `json:"file_name" gorm:"type:varchar(255);not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(100)"`
	FileSize    int64     `json:"file_size" gorm:"type:bigint"`
	StorageURL  string    `json:"storage_url" gorm:"type:varchar(500);not null"`
	UploadedBy  string    `json:"uploaded_by" gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CardDocument model
func (CardDocument) TableName() string {
	return "card_documents"
}

// BeforeCreate assigns the id when the database default does not
func (d *CardDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

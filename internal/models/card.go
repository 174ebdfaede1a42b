package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card is a tagged physical asset record (equipment, chemical, product).
// Ownership attribution is captured at creation and preserved across edits.
type Card struct {
	// Primary key
	ID string `json:"id" gorm:"primaryKey;type:uuid"`

	// Product identity
	ProductName string `json:"product_name" gorm:"type:varchar(255);not null;index"`
	ProductCode string `json:"product_code" gorm:"type:varchar(100);index"`
	Category    string `json:"category" gorm:"type:varchar(100);index"`
	Description string `json:"description" gorm:"type:text"`

	// Display styling for the printed tag
	BackgroundColor string `json:"background_color" gorm:"type:varchar(20)"`
	TextColor       string `json:"text_color" gorm:"type:varchar(20)"`

	// Free-form custom fields, optionally derived from a Template
	CustomFields JSON `json:"custom_fields" gorm:"type:jsonb"`

	// Ownership attribution, captured at creation time
	OwnerUsername   string `json:"owner_username" gorm:"type:varchar(255);not null;index"`
	OwnerFullName   string `json:"owner_full_name" gorm:"type:varchar(255)"`
	OwnerDepartment string `json:"owner_department" gorm:"type:varchar(255);index"`
	OwnerPlant      string `json:"owner_plant" gorm:"type:varchar(255)"`

	// Flags
	IsArchived bool `json:"is_archived" gorm:"default:false;index"`
	QRActive   bool `json:"qr_active" gorm:"default:true"`
	IsPrivate  bool `json:"is_private" gorm:"default:false"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships (cascade-deleted with the card)
	Documents    []CardDocument        `json:"documents,omitempty" gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
	Issues       []IssueReport         `json:"issues,omitempty" gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
	Reminders    []MaintenanceReminder `json:"reminders,omitempty" gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
	ScanResults  []ScanResult          `json:"scan_results,omitempty" gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
	ScanSettings *ScanSettings         `json:"scan_settings,omitempty" gorm:"foreignKey:CardID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Card model
func (Card) TableName() string {
	return "cards"
}

// BeforeCreate assigns the id when the database default does not
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// CreateCardRequest represents the request to create a card
type CreateCardRequest struct {
	ProductName     string `json:"product_name" binding:"required" example:"Acetone 5L"`
	ProductCode     string `json:"product_code" example:"CHM-0042"`
	Category        string `json:"category" example:"chemical"`
	Description     string `json:"description"`
	BackgroundColor string `json:"background_color" example:"#FFFFFF"`
	TextColor       string `json:"text_color" example:"#000000"`
	CustomFields    JSON   `json:"custom_fields" swaggertype:"object"`
	IsPrivate       bool   `json:"is_private"`
}

// UpdateCardRequest represents the request to update a card.
// Ownership attribution fields are not accepted here; they are preserved
// from creation.
type UpdateCardRequest struct {
	ProductName     string `json:"product_name" example:"Acetone 5L"`
	ProductCode     string `json:"product_code"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	CustomFields    JSON   `json:"custom_fields" swaggertype:"object"`
	IsPrivate       *bool  `json:"is_private"`
	IsArchived      *bool  `json:"is_archived"`
	QRActive        *bool  `json:"qr_active"`
}

// PublicCardResponse is the anonymous scan view of a non-private card,
// filtered according to its scan settings.
type PublicCardResponse struct {
	ID              string `json:"id"`
	ProductName     string `json:"product_name"`
	ProductCode     string `json:"product_code,omitempty"`
	Category        string `json:"category,omitempty"`
	Description     string `json:"description,omitempty"`
	BackgroundColor string `json:"background_color,omitempty"`
	TextColor       string `json:"text_color,omitempty"`
	CustomFields    JSON   `json:"custom_fields,omitempty" swaggertype:"object"`
	OwnerFullName   string `json:"owner_full_name,omitempty"`
	OwnerDepartment string `json:"owner_department,omitempty"`
	Documents       []CardDocument `json:"documents,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template is a reusable custom-field schema for cards of a category.
// Deletion is blocked while any card's custom-fields blob references the
// template id.
type Template struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	Category  string    `json:"category" gorm:"type:varchar(100);index"`
	Fields    JSON      `json:"fields" gorm:"type:jsonb"` // JSON-encoded field list
	CreatedBy string    `json:"created_by" gorm:"type:varchar(255)"`
	UpdatedBy string    `json:"updated_by" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Template model
func (Template) TableName() string {
	return "templates"
}

// BeforeCreate assigns the id when the database default does not
func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// CreateTemplateRequest represents the request to create a template
type CreateTemplateRequest struct {
	Name     string `json:"name" binding:"required" example:"Chemical container"`
	Category string `json:"category" example:"chemical"`
	Fields   JSON   `json:"fields" swaggertype:"object"`
}

// UpdateTemplateRequest represents the request to update a template
type UpdateTemplateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Fields   JSON   `json:"fields" swaggertype:"object"`
}

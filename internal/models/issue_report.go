package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Issue statuses
const (
	IssueStatusOpen     = "open"
	IssueStatusResolved = "resolved"
)

// IssueReport is a problem logged against a card
type IssueReport struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	CardID      string     `json:"card_id" gorm:"not null;index;type:uuid"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Description string     `json:"description" gorm:"type:text"`
	Severity    string     `json:"severity" gorm:"type:varchar(20);default:'normal'"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'open';index"`
	ReportedBy  string     `json:"reported_by" gorm:"type:varchar(255)"`
	ResolvedBy  string     `json:"resolved_by" gorm:"type:varchar(255)"`
	ResolvedAt  *time.Time `json:"resolved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the IssueReport model
func (IssueReport) TableName() string {
	return "issue_reports"
}

// BeforeCreate assigns the id when the database default does not
func (i *IssueReport) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// CreateIssueRequest represents the request to report an issue on a card
type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required" example:"Broken valve"`
	Description string `json:"description"`
	Severity    string `json:"severity" example:"high"`
}

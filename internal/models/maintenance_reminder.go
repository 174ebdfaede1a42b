package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reminder statuses. The sweeper moves scheduled reminders to due once
// their DueAt has passed.
const (
	ReminderStatusScheduled = "scheduled"
	ReminderStatusDue       = "due"
	ReminderStatusDone      = "done"
)

// MaintenanceReminder schedules a maintenance action for a card
type MaintenanceReminder struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	CardID      string     `json:"card_id" gorm:"not null;index;type:uuid"`
	Title       string     `json:"title" gorm:"type:varchar(255);not null"`
	Notes       string     `json:"notes" gorm:"type:text"`
	DueAt       time.Time  `json:"due_at" gorm:"not null;index"`
	Status      string     `json:"status" gorm:"type:varchar(20);default:'scheduled';index"`
	CompletedAt *time.Time `json:"completed_at"`
	CompletedBy string     `json:"completed_by" gorm:"type:varchar(255)"`
	CreatedBy   string     `json:"created_by" gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the MaintenanceReminder model
func (MaintenanceReminder) TableName() string {
	return "maintenance_reminders"
}

// BeforeCreate assigns the id when the database default does not
func (m *MaintenanceReminder) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// CreateReminderRequest represents the request to schedule a reminder
type CreateReminderRequest struct {
	Title string    `json:"title" binding:"required" example:"Calibrate sensor"`
	Notes string    `json:"notes"`
	DueAt time.Time `json:"due_at" binding:"required" example:"2026-09-15T08:00:00Z"`
}

package repository

import (
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type MaintenanceReminderRepository struct {
	db *gorm.DB
}

func NewMaintenanceReminderRepository(db *gorm.DB) *MaintenanceReminderRepository {
	return &MaintenanceReminderRepository{db: db}
}

// Create creates a reminder
func (r *MaintenanceReminderRepository) Create(reminder *models.MaintenanceReminder) error {
	return r.db.Create(reminder).Error
}

// Update persists all fields of an existing reminder
func (r *MaintenanceReminderRepository) Update(reminder *models.MaintenanceReminder) error {
	return r.db.Save(reminder).Error
}

// GetByID retrieves a reminder by ID
func (r *MaintenanceReminderRepository) GetByID(id string) (*models.MaintenanceReminder, error) {
	var reminder models.MaintenanceReminder
	err := r.db.First(&reminder, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// GetByCard returns all reminders on a card ordered by due date
func (r *MaintenanceReminderRepository) GetByCard(cardID string) ([]models.MaintenanceReminder, error) {
	var reminders []models.MaintenanceReminder
	err := r.db.Where("card_id = ?", cardID).Order("due_at").Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// GetScheduledDueBefore returns scheduled reminders whose due date has
// passed (the sweeper input)
func (r *MaintenanceReminderRepository) GetScheduledDueBefore(cutoff time.Time) ([]models.MaintenanceReminder, error) {
	var reminders []models.MaintenanceReminder
	err := r.db.
		Where("status = ? AND due_at <= ?", models.ReminderStatusScheduled, cutoff).
		Find(&reminders).Error
	if err != nil {
		return nil, err
	}
	return reminders, nil
}

// Delete removes a reminder
func (r *MaintenanceReminderRepository) Delete(id string) error {
	return r.db.Delete(&models.MaintenanceReminder{}, "id = ?", id).Error
}

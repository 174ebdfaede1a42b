package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/sirupsen/logrus"
)

type MaintenanceReminderService struct {
	reminderRepo *repository.MaintenanceReminderRepository
	audit        *AuditService
	interval     time.Duration
	stopChan     chan bool
}

func NewMaintenanceReminderService(reminderRepo *repository.MaintenanceReminderRepository, audit *AuditService) *MaintenanceReminderService {
	return &MaintenanceReminderService{
		reminderRepo: reminderRepo,
		audit:        audit,
		interval:     time.Hour, // Sweep every hour
		stopChan:     make(chan bool),
	}
}

// CreateReminder schedules a maintenance reminder on a card
func (s *MaintenanceReminderService) CreateReminder(cardID string, req *models.CreateReminderRequest, createdBy string) (*models.MaintenanceReminder, error) {
	if req.DueAt.IsZero() {
		return nil, errors.New("due date is required")
	}

	reminder := &models.MaintenanceReminder{
		CardID:    cardID,
		Title:     req.Title,
		Notes:     req.Notes,
		DueAt:     req.DueAt,
		Status:    models.ReminderStatusScheduled,
		CreatedBy: createdBy,
	}
	if err := s.reminderRepo.Create(reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

// CompleteReminder marks a reminder done with completer attribution
func (s *MaintenanceReminderService) CompleteReminder(id, completedBy string) (*models.MaintenanceReminder, error) {
	reminder, err := s.reminderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if reminder.Status == models.ReminderStatusDone {
		return reminder, nil
	}

	now := time.Now()
	reminder.Status = models.ReminderStatusDone
	reminder.CompletedBy = completedBy
	reminder.CompletedAt = &now

	if err := s.reminderRepo.Update(reminder); err != nil {
		return nil, fmt.Errorf("failed to complete reminder: %w", err)
	}
	return reminder, nil
}

// GetRemindersByCard returns all reminders on a card
func (s *MaintenanceReminderService) GetRemindersByCard(cardID string) ([]models.MaintenanceReminder, error) {
	return s.reminderRepo.GetByCard(cardID)
}

// DeleteReminder removes a reminder
func (s *MaintenanceReminderService) DeleteReminder(id string) error {
	if _, err := s.reminderRepo.GetByID(id); err != nil {
		return err
	}
	return s.reminderRepo.Delete(id)
}

// Start starts the background due-date sweeper
func (s *MaintenanceReminderService) Start() {
	go s.run()
	logrus.Info("Maintenance reminder sweeper started")
}

// Stop stops the background due-date sweeper
func (s *MaintenanceReminderService) Stop() {
	s.stopChan <- true
	logrus.Info("Maintenance reminder sweeper stopped")
}

func (s *MaintenanceReminderService) run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run initial sweep
	s.Sweep()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stopChan:
			return
		}
	}
}

// Sweep transitions scheduled reminders whose due date has passed to
// the due state and publishes an audit event per transition.
func (s *MaintenanceReminderService) Sweep() {
	reminders, err := s.reminderRepo.GetScheduledDueBefore(time.Now())
	if err != nil {
		logrus.Errorf("Failed to load due reminders: %v", err)
		return
	}
	if len(reminders) == 0 {
		return
	}

	for i := range reminders {
		reminder := &reminders[i]
		reminder.Status = models.ReminderStatusDue
		if err := s.reminderRepo.Update(reminder); err != nil {
			logrus.Errorf("Failed to mark reminder %s due: %v", reminder.ID, err)
			continue
		}
		s.audit.Publish("reminder.due", "system", map[string]interface{}{
			"reminder_id": reminder.ID, "card_id": reminder.CardID, "title": reminder.Title,
		})
	}

	logrus.Infof("Reminder sweep marked %d reminder(s) due", len(reminders))
}

// SetInterval sets the sweep interval
func (s *MaintenanceReminderService) SetInterval(interval time.Duration) {
	s.interval = interval
}

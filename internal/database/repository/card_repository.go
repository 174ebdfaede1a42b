package repository

import (
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create creates a new card
func (r *CardRepository) Create(card *models.Card) error {
	return r.db.Create(card).Error
}

// Update persists all fields of an existing card
func (r *CardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

// GetByID retrieves a card by ID
func (r *CardRepository) GetByID(id string) (*models.Card, error) {
	var card models.Card
	err := r.db.First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByIDWithRelations retrieves a card with documents, scan settings and
// open issues preloaded
func (r *CardRepository) GetByIDWithRelations(id string) (*models.Card, error) {
	var card models.Card
	err := r.db.
		Preload("Documents").
		Preload("ScanSettings").
		Preload("Issues", "status = ?", models.IssueStatusOpen).
		Preload("Reminders", "status <> ?", models.ReminderStatusDone).
		First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// Delete removes a card. Owned rows cascade at the database level; on
// engines without FK cascade (tests) they are removed explicitly.
func (r *CardRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&models.CardDocument{}, &models.IssueReport{}, &models.MaintenanceReminder{},
			&models.ScanResult{}, &models.ScanSettings{},
		} {
			if err := tx.Where("card_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Card{}, "id = ?", id).Error
	})
}

// ListByDepartments returns non-archived cards owned by any of the given
// departments, paginated
func (r *CardRepository) ListByDepartments(departments []string, page, pageSize int, search string) ([]models.Card, int64, error) {
	var cards []models.Card
	var total int64

	query := r.db.Model(&models.Card{}).
		Where("is_archived = ?", false).
		Where("owner_department IN ?", departments)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("product_name LIKE ? OR product_code LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&cards).Error
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// ListAll returns all non-archived cards, paginated (admin listing)
func (r *CardRepository) ListAll(page, pageSize int, search string) ([]models.Card, int64, error) {
	var cards []models.Card
	var total int64

	query := r.db.Model(&models.Card{}).Where("is_archived = ?", false)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("product_name LIKE ? OR product_code LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&cards).Error
	if err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

// CountCustomFieldsContaining counts cards whose custom-fields blob
// textually references the given value (used to block template deletion)
func (r *CardRepository) CountCustomFieldsContaining(ref string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Card{}).
		Where("CAST(custom_fields AS TEXT) LIKE ?", "%"+ref+"%").
		Count(&count).Error
	return count, err
}

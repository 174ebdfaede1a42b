package repository

import (
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type UserProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) *UserProfileRepository {
	return &UserProfileRepository{db: db}
}

// Create creates a new user profile
func (r *UserProfileRepository) Create(profile *models.UserProfile) error {
	return r.db.Create(profile).Error
}

// Update persists all fields of an existing profile
func (r *UserProfileRepository) Update(profile *models.UserProfile) error {
	return r.db.Save(profile).Error
}

// GetByID retrieves a profile by ID
func (r *UserProfileRepository) GetByID(id string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByUsername retrieves a profile by exact username
func (r *UserProfileRepository) GetByUsername(username string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.Where("username = ?", username).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetAll returns profiles with pagination and optional username/email search
func (r *UserProfileRepository) GetAll(page, pageSize int, search string) ([]models.UserProfile, int64, error) {
	var profiles []models.UserProfile
	var total int64

	query := r.db.Model(&models.UserProfile{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR user_email LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("username").Offset(offset).Limit(pageSize).Find(&profiles).Error
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// GetActiveNotInDepartment returns active profiles whose home department
// differs from the given one (case-insensitive). Used when selecting
// grant candidates: members already have implicit access.
func (r *UserProfileRepository) GetActiveNotInDepartment(department string) ([]models.UserProfile, error) {
	var profiles []models.UserProfile
	err := r.db.
		Where("is_active = ?", true).
		Where("LOWER(department_name) <> LOWER(?)", department).
		Order("username").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

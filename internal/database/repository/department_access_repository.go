package repository

import (
	"errors"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type DepartmentAccessRepository struct {
	db *gorm.DB
}

func NewDepartmentAccessRepository(db *gorm.DB) *DepartmentAccessRepository {
	return &DepartmentAccessRepository{db: db}
}

// Create inserts a new grant row
func (r *DepartmentAccessRepository) Create(access *models.DepartmentAccess) error {
	return r.db.Create(access).Error
}

// Update persists all fields of an existing grant row
func (r *DepartmentAccessRepository) Update(access *models.DepartmentAccess) error {
	return r.db.Save(access).Error
}

// GetByID retrieves a grant by ID
func (r *DepartmentAccessRepository) GetByID(id string) (*models.DepartmentAccess, error) {
	var access models.DepartmentAccess
	err := r.db.First(&access, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// FindByUserAndDepartment finds the grant row for (user, department)
// regardless of active state, comparing the department name
// case-insensitively. Returns nil when no row exists.
func (r *DepartmentAccessRepository) FindByUserAndDepartment(userID, department string) (*models.DepartmentAccess, error) {
	var access models.DepartmentAccess
	err := r.db.
		Where("user_id = ? AND LOWER(department_name) = LOWER(?)", userID, department).
		First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// Delete hard-deletes a grant row and reports how many rows were removed
func (r *DepartmentAccessRepository) Delete(id string) (int64, error) {
	res := r.db.Delete(&models.DepartmentAccess{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

// GetActiveByUser returns all active grants for a user
func (r *DepartmentAccessRepository) GetActiveByUser(userID string) ([]models.DepartmentAccess, error) {
	var accesses []models.DepartmentAccess
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&accesses).Error
	if err != nil {
		return nil, err
	}
	return accesses, nil
}

// ActiveGrantExists checks for any active grant on (user, department),
// ignoring access level
func (r *DepartmentAccessRepository) ActiveGrantExists(userID, department string) (bool, error) {
	var count int64
	err := r.db.Model(&models.DepartmentAccess{}).
		Where("user_id = ? AND LOWER(department_name) = LOWER(?) AND is_active = ?", userID, department, true).
		Count(&count).Error
	return count > 0, err
}

// GetAll returns every grant in the system with the grantee preloaded
func (r *DepartmentAccessRepository) GetAll() ([]models.DepartmentAccess, error) {
	var accesses []models.DepartmentAccess
	err := r.db.Preload("User").Order("department_name").Find(&accesses).Error
	if err != nil {
		return nil, err
	}
	return accesses, nil
}

// GetByDepartment returns all grants into one department
// (case-insensitive) with the grantee preloaded
func (r *DepartmentAccessRepository) GetByDepartment(department string) ([]models.DepartmentAccess, error) {
	var accesses []models.DepartmentAccess
	err := r.db.Preload("User").
		Where("LOWER(department_name) = LOWER(?)", department).
		Find(&accesses).Error
	if err != nil {
		return nil, err
	}
	return accesses, nil
}

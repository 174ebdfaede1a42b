package repository

import (
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// Create creates a new role
func (r *RoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

// GetByID retrieves a role by ID
func (r *RoleRepository) GetByID(id string) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByNormalizedName retrieves a role by its case-normalized name
func (r *RoleRepository) GetByNormalizedName(normalized string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("normalized_name = ?", normalized).First(&role).Error
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetAll returns all roles
func (r *RoleRepository) GetAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Order("name").Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// Update updates a role
func (r *RoleRepository) Update(role *models.Role) error {
	return r.db.Save(role).Error
}

// Delete deletes a role by ID
func (r *RoleRepository) Delete(id string) error {
	return r.db.Delete(&models.Role{}, "id = ?", id).Error
}

// CountAssignments counts user_roles rows referencing the role
func (r *RoleRepository) CountAssignments(roleID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).Where("role_id = ?", roleID).Count(&count).Error
	return count, err
}

// AssignmentExists checks whether the (user, role) pairing already exists
func (r *RoleRepository) AssignmentExists(userID, roleID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Count(&count).Error
	return count > 0, err
}

// CreateAssignment inserts a user-role pairing with actor attribution
func (r *RoleRepository) CreateAssignment(userID, roleID, createdBy string) error {
	return r.db.Create(&models.UserRole{
		UserID:    userID,
		RoleID:    roleID,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}).Error
}

// DeleteAssignment removes a user-role pairing and reports how many rows
// were affected
func (r *RoleRepository) DeleteAssignment(userID, roleID string) (int64, error) {
	res := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&models.UserRole{})
	return res.RowsAffected, res.Error
}

// GetUserRoles retrieves all roles assigned to a user
func (r *RoleRepository) GetUserRoles(userID string) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name").
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// UserHasRole checks if a user has a role by name (case-insensitive)
func (r *RoleRepository) UserHasRole(userID string, roleName string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserRole{}).
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND LOWER(roles.name) = LOWER(?)", userID, roleName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetUsersByRole retrieves all user profiles holding a role (by name,
// case-insensitive)
func (r *RoleRepository) GetUsersByRole(roleName string) ([]models.UserProfile, error) {
	var users []models.UserProfile
	err := r.db.
		Joins("JOIN user_roles ON user_profiles.id = user_roles.user_id").
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("LOWER(roles.name) = LOWER(?)", roleName).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

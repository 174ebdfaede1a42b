package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type RoleService struct {
	roleRepo    *repository.RoleRepository
	profileRepo *repository.UserProfileRepository
}

func NewRoleService(roleRepo *repository.RoleRepository, profileRepo *repository.UserProfileRepository) *RoleService {
	return &RoleService{
		roleRepo:    roleRepo,
		profileRepo: profileRepo,
	}
}

// NormalizeRoleName returns the case-normalized form used for equality
// checks
func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// GetAllRoles returns all roles in the system
func (s *RoleService) GetAllRoles() ([]models.Role, error) {
	return s.roleRepo.GetAll()
}

// GetRoleByName retrieves a role by name (case-insensitive)
func (s *RoleService) GetRoleByName(name string) (*models.Role, error) {
	return s.roleRepo.GetByNormalizedName(NormalizeRoleName(name))
}

// CreateRole creates a new role with a fresh concurrency stamp
func (s *RoleService) CreateRole(name, description string) (*models.Role, error) {
	normalized := NormalizeRoleName(name)
	if normalized == "" {
		return nil, errors.New("role name is required")
	}

	existing, err := s.roleRepo.GetByNormalizedName(normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check role existence: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("role with name '%s' already exists", name)
	}

	role := &models.Role{
		Name:             strings.TrimSpace(name),
		NormalizedName:   normalized,
		Description:      description,
		ConcurrencyStamp: uuid.New().String(),
	}

	if err := s.roleRepo.Create(role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return role, nil
}

// UpdateRole renames or redescribes a role. Every mutation regenerates
// the concurrency stamp.
func (s *RoleService) UpdateRole(id, name, description string) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("role not found: %w", err)
	}

	normalized := NormalizeRoleName(name)
	if normalized == "" {
		return nil, errors.New("role name is required")
	}
	if normalized != role.NormalizedName {
		existing, err := s.roleRepo.GetByNormalizedName(normalized)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check role existence: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("role with name '%s' already exists", name)
		}
	}

	role.Name = strings.TrimSpace(name)
	role.NormalizedName = normalized
	role.Description = description
	role.ConcurrencyStamp = uuid.New().String()

	if err := s.roleRepo.Update(role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return role, nil
}

// DeleteRole removes a role. Returns false without error when the role
// is still assigned to any user: callers treat the false return as
// "blocked, in use".
func (s *RoleService) DeleteRole(id string) (bool, error) {
	if _, err := s.roleRepo.GetByID(id); err != nil {
		return false, fmt.Errorf("role not found: %w", err)
	}

	count, err := s.roleRepo.CountAssignments(id)
	if err != nil {
		return false, fmt.Errorf("failed to count role assignments: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := s.roleRepo.Delete(id); err != nil {
		return false, fmt.Errorf("failed to delete role: %w", err)
	}
	return true, nil
}

// AssignRoleToUser links a role to a user with actor attribution.
// Idempotent: an existing pairing reports success without duplicating.
// Returns false when either id does not resolve.
func (s *RoleService) AssignRoleToUser(userID, roleID, actor string) (bool, error) {
	user, err := s.profileRepo.GetByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	role, err := s.roleRepo.GetByID(roleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up role: %w", err)
	}

	exists, err := s.roleRepo.AssignmentExists(userID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to check role assignment: %w", err)
	}
	if exists {
		return true, nil
	}

	if err := s.roleRepo.CreateAssignment(userID, roleID, actor); err != nil {
		return false, fmt.Errorf("failed to assign role: %w", err)
	}

	logrus.Infof("Assigned role '%s' to user '%s' by '%s'", role.Name, user.Username, actor)
	return true, nil
}

// AssignRoleToUserByName assigns a role by name (internal helper)
func (s *RoleService) AssignRoleToUserByName(userID, roleName, actor string) (bool, error) {
	role, err := s.GetRoleByName(roleName)
	if err != nil {
		return false, fmt.Errorf("role '%s' not found: %w", roleName, err)
	}
	return s.AssignRoleToUser(userID, role.ID, actor)
}

// RemoveRoleFromUser unlinks a role from a user. Returns false when no
// such pairing exists. Department accesses are unrelated and never
// touched here.
func (s *RoleService) RemoveRoleFromUser(userID, roleID string) (bool, error) {
	affected, err := s.roleRepo.DeleteAssignment(userID, roleID)
	if err != nil {
		return false, fmt.Errorf("failed to remove role: %w", err)
	}
	return affected > 0, nil
}

// GetUserRoles retrieves all roles for a user
func (s *RoleService) GetUserRoles(userID string) ([]models.Role, error) {
	return s.roleRepo.GetUserRoles(userID)
}

// GetUserRoleNames retrieves the role names for a user
func (s *RoleService) GetUserRoleNames(userID string) ([]string, error) {
	roles, err := s.roleRepo.GetUserRoles(userID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = role.Name
	}
	return names, nil
}

// IsUserInRole checks if a user has a role, comparing the name
// case-insensitively
func (s *RoleService) IsUserInRole(userID, roleName string) (bool, error) {
	return s.roleRepo.UserHasRole(userID, roleName)
}

// GetUsersInRole retrieves all user profiles holding a role
func (s *RoleService) GetUsersInRole(roleName string) ([]models.UserProfile, error) {
	return s.roleRepo.GetUsersByRole(roleName)
}

// GetUserRoleResponse returns a user with their role names
func (s *RoleService) GetUserRoleResponse(userID string) (*models.UserRoleResponse, error) {
	user, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	names, err := s.GetUserRoleNames(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}

	return &models.UserRoleResponse{
		UserID:   user.ID,
		Username: user.Username,
		Roles:    names,
	}, nil
}

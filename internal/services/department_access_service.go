package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrNotAuthorized is returned when the acting identity may not perform
// a department-access read or mutation.
var ErrNotAuthorized = errors.New("not authorized for department access management")

// ErrUserNotFound is returned when a grant targets an unknown profile
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidAccessLevel is returned for access levels outside View/Edit
var ErrInvalidAccessLevel = errors.New("invalid access level")

// ErrDepartmentRequired is returned when a department name is missing
var ErrDepartmentRequired = errors.New("department name is required")

type DepartmentAccessService struct {
	accessRepo  *repository.DepartmentAccessRepository
	profileRepo *repository.UserProfileRepository
	audit       *AuditService
}

func NewDepartmentAccessService(
	accessRepo *repository.DepartmentAccessRepository,
	profileRepo *repository.UserProfileRepository,
	audit *AuditService) *DepartmentAccessService {
	return &DepartmentAccessService{
		accessRepo:  accessRepo,
		profileRepo: profileRepo,
		audit:       audit,
	}
}

// normalizeAccessLevel trims the level and defaults blank to View.
// Unknown values are rejected.
func normalizeAccessLevel(level string) (string, error) {
	level = strings.TrimSpace(level)
	switch {
	case level == "":
		return models.AccessLevelView, nil
	case strings.EqualFold(level, models.AccessLevelView):
		return models.AccessLevelView, nil
	case strings.EqualFold(level, models.AccessLevelEdit):
		return models.AccessLevelEdit, nil
	default:
		return "", fmt.Errorf("%w '%s'", ErrInvalidAccessLevel, level)
	}
}

// GrantAccess grants a department's visibility to a user. An existing
// row for the pair is reactivated or its level overwritten in place;
// grant history is not versioned. At most one active row per
// (user, department) results.
func (s *DepartmentAccessService) GrantAccess(userID, department, accessLevel, grantedBy string) (*models.DepartmentAccess, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, ErrDepartmentRequired
	}

	level, err := normalizeAccessLevel(accessLevel)
	if err != nil {
		return nil, err
	}

	user, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserNotFound, err)
	}

	existing, err := s.accessRepo.FindByUserAndDepartment(userID, department)
	if err != nil {
		return nil, fmt.Errorf("failed to look up department access: %w", err)
	}

	now := time.Now()
	if existing == nil {
		access := &models.DepartmentAccess{
			UserID:         userID,
			DepartmentName: department,
			AccessLevel:    level,
			GrantedBy:      grantedBy,
			IsActive:       true,
			GrantedAt:      now,
		}
		if err := s.accessRepo.Create(access); err != nil {
			return nil, fmt.Errorf("failed to create department access: %w", err)
		}
		logrus.Infof("Granted %s access to '%s' for user '%s' by '%s'", level, department, user.Username, grantedBy)
		s.audit.Publish("department_access.granted", grantedBy, map[string]interface{}{
			"user_id": userID, "department": department, "access_level": level,
		})
		return access, nil
	}

	if !existing.IsActive {
		existing.IsActive = true
		existing.AccessLevel = level
		existing.GrantedBy = grantedBy
		existing.GrantedAt = now
	} else if existing.AccessLevel != level {
		existing.AccessLevel = level
		existing.GrantedBy = grantedBy
		existing.GrantedAt = now
	} else {
		return existing, nil
	}

	if err := s.accessRepo.Update(existing); err != nil {
		return nil, fmt.Errorf("failed to update department access: %w", err)
	}
	logrus.Infof("Updated %s access to '%s' for user '%s' by '%s'", level, department, user.Username, grantedBy)
	s.audit.Publish("department_access.granted", grantedBy, map[string]interface{}{
		"user_id": userID, "department": department, "access_level": level,
	})
	return existing, nil
}

// RevokeAccess hard-deletes a grant row. The caller's scope mirrors the
// listing rules: an admin may revoke any grant, a manager only grants
// into their home department. The delete is verified by affected row
// count: zero rows means the grant was already revoked and is reported
// as false, not re-issued.
func (s *DepartmentAccessService) RevokeAccess(identity *models.SessionIdentity, accessID string) (bool, error) {
	access, err := s.accessRepo.GetByID(accessID)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up department access: %w", err)
	}

	switch {
	case identity.IsAdmin():
	case identity.HasRole("Manager") && strings.EqualFold(access.DepartmentName, identity.DepartmentName):
	default:
		return false, ErrNotAuthorized
	}

	affected, err := s.accessRepo.Delete(accessID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke department access: %w", err)
	}
	if affected == 0 {
		logrus.Warnf("Revoke of department access %s removed no rows (already revoked)", accessID)
		return false, nil
	}

	logrus.Infof("Revoked department access %s by '%s'", accessID, identity.Username)
	s.audit.Publish("department_access.revoked", identity.Username, map[string]interface{}{
		"access_id": accessID,
	})
	return true, nil
}

// HasAccessToDepartment reports whether the user may see a department's
// cards: their home department is always fully accessible, and any
// active grant counts regardless of its level.
func (s *DepartmentAccessService) HasAccessToDepartment(userID, department string) (bool, error) {
	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return false, fmt.Errorf("user not found: %w", err)
	}
	if strings.EqualFold(profile.DepartmentName, strings.TrimSpace(department)) {
		return true, nil
	}
	return s.accessRepo.ActiveGrantExists(userID, strings.TrimSpace(department))
}

// HasAccessLevelToDepartment reports whether the user holds the required
// level for a department. Edit satisfies any requirement; the hierarchy
// is one-way (Edit implies View, never the reverse).
func (s *DepartmentAccessService) HasAccessLevelToDepartment(userID, department, requiredLevel string) (bool, error) {
	department = strings.TrimSpace(department)

	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return false, fmt.Errorf("user not found: %w", err)
	}
	if strings.EqualFold(profile.DepartmentName, department) {
		return true, nil
	}

	grants, err := s.accessRepo.GetActiveByUser(userID)
	if err != nil {
		return false, fmt.Errorf("failed to load department grants: %w", err)
	}
	for _, grant := range grants {
		if !strings.EqualFold(grant.DepartmentName, department) {
			continue
		}
		if strings.EqualFold(grant.AccessLevel, requiredLevel) ||
			strings.EqualFold(grant.AccessLevel, models.AccessLevelEdit) {
			return true, nil
		}
	}
	return false, nil
}

// GetAccessibleDepartments returns the deduplicated union of the user's
// home department and all active-grant departments.
func (s *DepartmentAccessService) GetAccessibleDepartments(userID string) ([]string, error) {
	profile, err := s.profileRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	grants, err := s.accessRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load department grants: %w", err)
	}

	seen := make(map[string]bool)
	var departments []string
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			departments = append(departments, name)
		}
	}

	add(profile.DepartmentName)
	for _, grant := range grants {
		add(grant.DepartmentName)
	}
	return departments, nil
}

// ListGrants returns grants visible to the acting identity: a full
// administrator sees every grant, a manager only their home
// department's.
func (s *DepartmentAccessService) ListGrants(identity *models.SessionIdentity) ([]models.DepartmentAccessResponse, error) {
	var accesses []models.DepartmentAccess
	var err error

	switch {
	case identity.IsAdmin():
		accesses, err = s.accessRepo.GetAll()
	case identity.HasRole("Manager"):
		accesses, err = s.accessRepo.GetByDepartment(identity.DepartmentName)
	default:
		return nil, ErrNotAuthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list department grants: %w", err)
	}

	responses := make([]models.DepartmentAccessResponse, len(accesses))
	for i, access := range accesses {
		responses[i] = models.DepartmentAccessResponse{
			ID:             access.ID,
			UserID:         access.UserID,
			Username:       access.User.Username,
			DepartmentName: access.DepartmentName,
			AccessLevel:    access.AccessLevel,
			GrantedBy:      access.GrantedBy,
			GrantedAt:      access.GrantedAt,
		}
	}
	return responses, nil
}

// ListGrantCandidates returns the users a grant into the department
// could target. Members of that department are excluded: they already
// have implicit access. A manager may only pick candidates for their
// home department.
func (s *DepartmentAccessService) ListGrantCandidates(identity *models.SessionIdentity, department string) ([]models.UserProfile, error) {
	department = strings.TrimSpace(department)

	switch {
	case identity.IsAdmin():
		if department == "" {
			return nil, ErrDepartmentRequired
		}
	case identity.HasRole("Manager"):
		department = identity.DepartmentName
	default:
		return nil, ErrNotAuthorized
	}

	return s.profileRepo.GetActiveNotInDepartment(department)
}

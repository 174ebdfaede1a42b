package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/enrichment"
	"github.com/smt-intra/asset-tag-services-backend/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UserProfileService struct {
	profileRepo *repository.UserProfileRepository
}

func NewUserProfileService(profileRepo *repository.UserProfileRepository) *UserProfileService {
	return &UserProfileService{profileRepo: profileRepo}
}

// UpsertOnLogin reconciles directory/enrichment values into the local
// profile. Existing profiles follow the fill-forward policy: a stored
// field is replaced only when the candidate is non-blank and different,
// so a source that lacked a field never regresses it to blank. New
// profiles are created with whatever fields are available.
// Persistence errors propagate: the login must not continue on a
// profile write failure.
func (s *UserProfileService) UpsertOnLogin(username string, candidate models.ProfileCandidate) (*models.UserProfile, error) {
	now := time.Now()

	profile, err := s.profileRepo.GetByUsername(username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &models.UserProfile{
			Username:          username,
			DetailTHFirstName: candidate.DetailTHFirstName,
			DetailTHLastName:  candidate.DetailTHLastName,
			DetailENFirstName: candidate.DetailENFirstName,
			DetailENLastName:  candidate.DetailENLastName,
			UserEmail:         candidate.UserEmail,
			PlantName:         candidate.PlantName,
			DepartmentName:    candidate.DepartmentName,
			UserCode:          candidate.UserCode,
			FirstLoginAt:      &now,
			LastLoginAt:       &now,
			IsActive:          true,
		}
		if err := s.profileRepo.Create(profile); err != nil {
			return nil, fmt.Errorf("failed to create user profile: %w", err)
		}
		logrus.Infof("Created profile for first-time user '%s'", username)
		return profile, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up user profile: %w", err)
	}

	mergeField(&profile.DetailTHFirstName, candidate.DetailTHFirstName)
	mergeField(&profile.DetailTHLastName, candidate.DetailTHLastName)
	mergeField(&profile.DetailENFirstName, candidate.DetailENFirstName)
	mergeField(&profile.DetailENLastName, candidate.DetailENLastName)
	mergeField(&profile.UserEmail, candidate.UserEmail)
	mergeField(&profile.PlantName, candidate.PlantName)
	mergeField(&profile.DepartmentName, candidate.DepartmentName)
	mergeField(&profile.UserCode, candidate.UserCode)
	profile.LastLoginAt = &now

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return profile, nil
}

// mergeField replaces *dst only when the candidate is non-blank and
// different
func mergeField(dst *string, candidate string) {
	if candidate != "" && candidate != *dst {
		*dst = candidate
	}
}

// ApplyEnrichmentIfBlank fills profile fields from the raw-payload pass.
// Unlike the login merge, this stricter policy only touches fields that
// are still blank: the explicit enrichment call is trusted more than
// values recovered from the raw payload.
func (s *UserProfileService) ApplyEnrichmentIfBlank(profile *models.UserProfile, fields *enrichment.ProfileFields) error {
	if fields == nil {
		return nil
	}

	changed := false
	changed = fillIfBlank(&profile.DetailTHFirstName, fields.THFirstName) || changed
	changed = fillIfBlank(&profile.DetailTHLastName, fields.THLastName) || changed
	changed = fillIfBlank(&profile.DetailENFirstName, fields.ENFirstName) || changed
	changed = fillIfBlank(&profile.DetailENLastName, fields.ENLastName) || changed
	changed = fillIfBlank(&profile.UserEmail, fields.Email) || changed
	changed = fillIfBlank(&profile.DepartmentName, fields.Department) || changed
	changed = fillIfBlank(&profile.PlantName, fields.Plant) || changed

	if !changed {
		return nil
	}
	if err := s.profileRepo.Update(profile); err != nil {
		return fmt.Errorf("failed to save enriched profile: %w", err)
	}
	return nil
}

// fillIfBlank sets *dst only when it is currently blank
func fillIfBlank(dst *string, value string) bool {
	if *dst == "" && value != "" {
		*dst = value
		return true
	}
	return false
}

// GetByUsername retrieves a profile by username
func (s *UserProfileService) GetByUsername(username string) (*models.UserProfile, error) {
	return s.profileRepo.GetByUsername(username)
}

// GetByID retrieves a profile by ID
func (s *UserProfileService) GetByID(id string) (*models.UserProfile, error) {
	return s.profileRepo.GetByID(id)
}

// UpdateSelf applies a self-service profile edit. Blank request fields
// leave the stored value untouched.
func (s *UserProfileService) UpdateSelf(username string, req *models.UpdateProfileRequest) (*models.UserProfile, error) {
	profile, err := s.profileRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("user profile not found: %w", err)
	}

	mergeField(&profile.DetailTHFirstName, req.DetailTHFirstName)
	mergeField(&profile.DetailTHLastName, req.DetailTHLastName)
	mergeField(&profile.DetailENFirstName, req.DetailENFirstName)
	mergeField(&profile.DetailENLastName, req.DetailENLastName)
	mergeField(&profile.UserEmail, req.UserEmail)
	mergeField(&profile.PlantName, req.PlantName)
	mergeField(&profile.DepartmentName, req.DepartmentName)

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("failed to update user profile: %w", err)
	}
	return profile, nil
}

// ListUsers returns profiles with pagination and search (admin listing)
func (s *UserProfileService) ListUsers(page, pageSize int, search string) ([]models.UserProfile, int64, error) {
	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	return s.profileRepo.GetAll(page, pageSize, search)
}

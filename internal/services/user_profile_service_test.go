package services

import (
	"testing"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/enrichment"
)

func newProfileService(t *testing.T) (*UserProfileService, *repository.UserProfileRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewUserProfileRepository(db)
	return NewUserProfileService(repo), repo
}

func TestUpsertOnLoginCreatesProfile(t *testing.T) {
	svc, _ := newProfileService(t)

	profile, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{
		DetailENFirstName: "John",
		DetailENLastName:  "Doe",
		UserEmail:         "jdoe@example.com",
		DepartmentName:    "Engineering",
		UserCode:          "100042",
	})
	if err != nil {
		t.Fatalf("UpsertOnLogin: %v", err)
	}

	if profile.ID == "" {
		t.Error("expected a generated profile id")
	}
	if profile.FirstLoginAt == nil || profile.LastLoginAt == nil {
		t.Error("expected first and last login timestamps on creation")
	}
	if !profile.IsActive {
		t.Error("expected new profile to be active")
	}
	if profile.DepartmentName != "Engineering" {
		t.Errorf("expected department Engineering, got %q", profile.DepartmentName)
	}
}

func TestUpsertOnLoginMergesNonBlankFields(t *testing.T) {
	svc, _ := newProfileService(t)

	first, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{
		DetailENFirstName: "John",
		UserEmail:         "jdoe@example.com",
		DepartmentName:    "Engineering",
	})
	if err != nil {
		t.Fatalf("first UpsertOnLogin: %v", err)
	}

	// Second login: blank email must not regress the stored value, a
	// changed department must replace it.
	updated, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{
		DetailENFirstName: "John",
		DepartmentName:    "Quality",
	})
	if err != nil {
		t.Fatalf("second UpsertOnLogin: %v", err)
	}

	if updated.ID != first.ID {
		t.Error("expected the same profile row to be updated")
	}
	if updated.UserEmail != "jdoe@example.com" {
		t.Errorf("blank candidate field regressed stored email to %q", updated.UserEmail)
	}
	if updated.DepartmentName != "Quality" {
		t.Errorf("expected department replaced with Quality, got %q", updated.DepartmentName)
	}
	if updated.LastLoginAt == nil || updated.LastLoginAt.Before(*first.FirstLoginAt) {
		t.Error("expected last login to advance on second login")
	}
	if updated.FirstLoginAt == nil || updated.FirstLoginAt.Unix() != first.FirstLoginAt.Unix() {
		t.Error("first login timestamp must not change on later logins")
	}
}

func TestApplyEnrichmentIfBlankOnlyFillsBlanks(t *testing.T) {
	svc, repo := newProfileService(t)

	profile, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{
		UserEmail:      "jdoe@example.com",
		DepartmentName: "Engineering",
	})
	if err != nil {
		t.Fatalf("UpsertOnLogin: %v", err)
	}

	err = svc.ApplyEnrichmentIfBlank(profile, &enrichment.ProfileFields{
		THFirstName: "สมชาย",
		Email:       "other@example.com",
		Plant:       "Plant 2",
	})
	if err != nil {
		t.Fatalf("ApplyEnrichmentIfBlank: %v", err)
	}

	stored, err := repo.GetByUsername("jdoe")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if stored.DetailTHFirstName != "สมชาย" {
		t.Errorf("expected blank Thai first name filled, got %q", stored.DetailTHFirstName)
	}
	if stored.PlantName != "Plant 2" {
		t.Errorf("expected blank plant filled, got %q", stored.PlantName)
	}
	if stored.UserEmail != "jdoe@example.com" {
		t.Errorf("non-blank email must not be overwritten, got %q", stored.UserEmail)
	}
}

func TestApplyEnrichmentNilFieldsIsNoop(t *testing.T) {
	svc, _ := newProfileService(t)

	profile, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{})
	if err != nil {
		t.Fatalf("UpsertOnLogin: %v", err)
	}
	if err := svc.ApplyEnrichmentIfBlank(profile, nil); err != nil {
		t.Fatalf("nil enrichment must be a no-op, got %v", err)
	}
}

func TestUpdateSelfKeepsBlankFields(t *testing.T) {
	svc, _ := newProfileService(t)

	if _, err := svc.UpsertOnLogin("jdoe", models.ProfileCandidate{
		DetailENFirstName: "John",
		UserEmail:         "jdoe@example.com",
	}); err != nil {
		t.Fatalf("UpsertOnLogin: %v", err)
	}

	updated, err := svc.UpdateSelf("jdoe", &models.UpdateProfileRequest{
		DetailENLastName: "Doe",
	})
	if err != nil {
		t.Fatalf("UpdateSelf: %v", err)
	}
	if updated.DetailENFirstName != "John" {
		t.Errorf("blank request field cleared first name to %q", updated.DetailENFirstName)
	}
	if updated.DetailENLastName != "Doe" {
		t.Errorf("expected last name Doe, got %q", updated.DetailENLastName)
	}
}

package auth

import (
	"testing"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/enrichment"
)

func TestApplyEnrichmentReplacesDirectoryValues(t *testing.T) {
	candidate := models.ProfileCandidate{
		DetailENFirstName: "John",
		DetailENLastName:  "Doe",
		UserEmail:         "dir@example.com",
		DepartmentName:    "QA",
		PlantName:         "Plant 1",
	}

	applyEnrichment(&candidate, &enrichment.ProfileFields{
		Email:      "hr@example.com",
		Department: "Quality Assurance",
	})

	if candidate.UserEmail != "hr@example.com" {
		t.Errorf("enrichment email must replace the directory value, got %q", candidate.UserEmail)
	}
	if candidate.DepartmentName != "Quality Assurance" {
		t.Errorf("enrichment department must replace the directory value, got %q", candidate.DepartmentName)
	}

	// Blank enrichment fields leave the directory values untouched
	if candidate.DetailENFirstName != "John" || candidate.DetailENLastName != "Doe" {
		t.Errorf("blank enrichment names must not clear directory names: %+v", candidate)
	}
	if candidate.PlantName != "Plant 1" {
		t.Errorf("blank enrichment plant must not clear directory plant, got %q", candidate.PlantName)
	}
}

func TestApplyEnrichmentFillsBlankDirectoryFields(t *testing.T) {
	candidate := models.ProfileCandidate{
		UserEmail: "dir@example.com",
	}

	applyEnrichment(&candidate, &enrichment.ProfileFields{
		THFirstName: "สมชาย",
		THLastName:  "ใจดี",
		ENFirstName: "Somchai",
	})

	if candidate.DetailTHFirstName != "สมชาย" || candidate.DetailTHLastName != "ใจดี" {
		t.Errorf("enrichment must supply names the directory lacks: %+v", candidate)
	}
	if candidate.DetailENFirstName != "Somchai" {
		t.Errorf("expected EN first name filled, got %q", candidate.DetailENFirstName)
	}
	if candidate.UserEmail != "dir@example.com" {
		t.Errorf("directory email must survive a blank enrichment email, got %q", candidate.UserEmail)
	}
}

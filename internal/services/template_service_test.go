package services

import (
	"fmt"
	"testing"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

func newTemplateService(t *testing.T) (*TemplateService, *CardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cardRepo := repository.NewCardRepository(db)
	access := NewDepartmentAccessService(
		repository.NewDepartmentAccessRepository(db),
		repository.NewUserProfileRepository(db),
		nil,
	)
	templates := NewTemplateService(repository.NewTemplateRepository(db), cardRepo)
	cards := NewCardService(cardRepo, repository.NewScanRepository(db), access, nil)
	return templates, cards, db
}

func TestCreateTemplateRequiresName(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	if _, err := svc.CreateTemplate(&models.CreateTemplateRequest{Name: "  "}, "admin"); err == nil {
		t.Error("expected a blank template name to be rejected")
	}
}

func TestUpdateTemplateTracksUpdater(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	template, err := svc.CreateTemplate(&models.CreateTemplateRequest{
		Name:     "Chemical container",
		Category: "chemical",
	}, "admin")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	if template.CreatedBy != "admin" || template.UpdatedBy != "admin" {
		t.Errorf("creation attribution missing: %+v", template)
	}

	updated, err := svc.UpdateTemplate(template.ID, &models.UpdateTemplateRequest{
		Category: "hazmat",
	}, "manager1")
	if err != nil {
		t.Fatalf("UpdateTemplate: %v", err)
	}
	if updated.Name != "Chemical container" {
		t.Errorf("blank request field cleared name to %q", updated.Name)
	}
	if updated.Category != "hazmat" || updated.UpdatedBy != "manager1" {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.CreatedBy != "admin" {
		t.Errorf("creator attribution must not change, got %q", updated.CreatedBy)
	}
}

func TestListTemplatesFiltersByCategory(t *testing.T) {
	svc, _, _ := newTemplateService(t)

	for _, tc := range []struct{ name, category string }{
		{"Chemical container", "chemical"},
		{"Acid drum", "chemical"},
		{"Server rack", "it"},
	} {
		if _, err := svc.CreateTemplate(&models.CreateTemplateRequest{Name: tc.name, Category: tc.category}, "admin"); err != nil {
			t.Fatalf("CreateTemplate(%s): %v", tc.name, err)
		}
	}

	chem, err := svc.ListTemplates("chemical")
	if err != nil {
		t.Fatalf("ListTemplates: %v", err)
	}
	if len(chem) != 2 {
		t.Errorf("expected 2 chemical templates, got %d", len(chem))
	}

	all, err := svc.ListTemplates("")
	if err != nil {
		t.Fatalf("ListTemplates all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 templates unfiltered, got %d", len(all))
	}
}

func TestDeleteTemplateBlockedWhileReferenced(t *testing.T) {
	templates, cards, db := newTemplateService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	identity := testIdentity(owner, "User")

	template, err := templates.CreateTemplate(&models.CreateTemplateRequest{Name: "Chemical container"}, "admin")
	if err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}

	card, err := cards.CreateCard(identity, &models.CreateCardRequest{
		ProductName:  "Acetone drum",
		CustomFields: models.JSON(fmt.Sprintf(`{"template_id":%q,"volume":"200L"}`, template.ID)),
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	deleted, err := templates.DeleteTemplate(template.ID)
	if err != nil {
		t.Fatalf("DeleteTemplate: %v", err)
	}
	if deleted {
		t.Error("expected delete to be blocked while a card references the template")
	}

	// Point the card elsewhere, then the template can go
	if _, err := cards.UpdateCard(identity, card.ID, &models.UpdateCardRequest{
		CustomFields: models.JSON(`{"volume":"200L"}`),
	}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	deleted, err = templates.DeleteTemplate(template.ID)
	if err != nil {
		t.Fatalf("DeleteTemplate after unlink: %v", err)
	}
	if !deleted {
		t.Error("expected delete to succeed once no card references the template")
	}

	if _, err := templates.GetTemplate(template.ID); !IsNotFound(err) {
		t.Errorf("expected template gone, got %v", err)
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

func newCardService(t *testing.T) (*CardService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	access := NewDepartmentAccessService(
		repository.NewDepartmentAccessRepository(db),
		repository.NewUserProfileRepository(db),
		nil,
	)
	svc := NewCardService(
		repository.NewCardRepository(db),
		repository.NewScanRepository(db),
		access,
		nil,
	)
	return svc, db
}

func createTestCard(t *testing.T, svc *CardService, identity *models.SessionIdentity, name string) *models.Card {
	t.Helper()
	card, err := svc.CreateCard(identity, &models.CreateCardRequest{
		ProductName: name,
		ProductCode: "PC-" + name,
		Category:    "equipment",
	})
	if err != nil {
		t.Fatalf("CreateCard(%s): %v", name, err)
	}
	return card
}

func TestCreateCardCapturesOwnerAttribution(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "jdoe", "Engineering")

	identity := testIdentity(owner, "User")
	identity.DetailENFirstName = "John"
	identity.DetailENLastName = "Doe"
	identity.PlantName = "Plant 1"

	card := createTestCard(t, svc, identity, "Oscilloscope")
	if card.OwnerUsername != "jdoe" || card.OwnerDepartment != "Engineering" {
		t.Errorf("owner attribution not captured: %+v", card)
	}
	if card.OwnerFullName != "John Doe" {
		t.Errorf("expected full name from EN names, got %q", card.OwnerFullName)
	}
	if card.OwnerPlant != "Plant 1" {
		t.Errorf("expected plant captured, got %q", card.OwnerPlant)
	}
	if !card.QRActive {
		t.Error("expected a new card's QR tag to be active")
	}
}

func TestCreateCardFallsBackToUsernameFullName(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "jdoe", "Engineering")

	card := createTestCard(t, svc, testIdentity(owner, "User"), "Caliper")
	if card.OwnerFullName != "jdoe" {
		t.Errorf("expected username fallback when EN names are blank, got %q", card.OwnerFullName)
	}
}

func TestCardViewAuthorizationMatrix(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	card := createTestCard(t, svc, testIdentity(owner, "User"), "Spectrometer")

	colleague := createTestUser(t, db, "colleague", "Engineering")
	admin := createTestUser(t, db, "admin1", "IT")
	granted := createTestUser(t, db, "granted", "Quality")
	outsider := createTestUser(t, db, "outsider", "Quality")

	if _, err := svc.access.GrantAccess(granted.ID, "Engineering", "View", "admin1"); err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}

	cases := []struct {
		name     string
		identity *models.SessionIdentity
		want     bool
	}{
		{"owner", testIdentity(owner, "User"), true},
		{"home department colleague", testIdentity(colleague, "User"), true},
		{"admin from another department", testIdentity(admin, "Admin"), true},
		{"view grant holder", testIdentity(granted, "User"), true},
		{"outsider", testIdentity(outsider, "User"), false},
	}
	for _, tc := range cases {
		_, err := svc.GetCard(tc.identity, card.ID)
		got := err == nil
		if got != tc.want {
			t.Errorf("%s: view allowed=%v, want %v (err=%v)", tc.name, got, tc.want, err)
		}
	}
}

func TestCardEditRequiresEditLevel(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	card := createTestCard(t, svc, testIdentity(owner, "User"), "Spectrometer")

	viewer := createTestUser(t, db, "viewer", "Quality")
	editor := createTestUser(t, db, "editor", "Quality")
	if _, err := svc.access.GrantAccess(viewer.ID, "Engineering", "View", "admin"); err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}
	if _, err := svc.access.GrantAccess(editor.ID, "Engineering", "Edit", "admin"); err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}

	req := &models.UpdateCardRequest{Description: "recalibrated"}
	if _, err := svc.UpdateCard(testIdentity(viewer, "User"), card.ID, req); !errors.Is(err, ErrCardAccessDenied) {
		t.Errorf("View grant must not allow edits, got %v", err)
	}
	if _, err := svc.UpdateCard(testIdentity(editor, "User"), card.ID, req); err != nil {
		t.Errorf("Edit grant must allow edits, got %v", err)
	}
}

func TestUpdateCardNeverTouchesOwnerFields(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	card := createTestCard(t, svc, testIdentity(owner, "User"), "Spectrometer")

	admin := createTestUser(t, db, "admin1", "IT")
	archived := true
	updated, err := svc.UpdateCard(testIdentity(admin, "Admin"), card.ID, &models.UpdateCardRequest{
		ProductName: "Spectrometer v2",
		IsArchived:  &archived,
	})
	if err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}

	if updated.OwnerUsername != "owner" || updated.OwnerDepartment != "Engineering" {
		t.Errorf("edit changed ownership attribution: %+v", updated)
	}
	if updated.ProductName != "Spectrometer v2" || !updated.IsArchived {
		t.Errorf("edit not applied: %+v", updated)
	}
}

func TestListCardsScopesByDepartment(t *testing.T) {
	svc, db := newCardService(t)
	engineer := createTestUser(t, db, "engineer", "Engineering")
	inspector := createTestUser(t, db, "inspector", "Quality")
	admin := createTestUser(t, db, "admin1", "IT")

	createTestCard(t, svc, testIdentity(engineer, "User"), "Oscilloscope")
	createTestCard(t, svc, testIdentity(engineer, "User"), "Caliper")
	createTestCard(t, svc, testIdentity(inspector, "User"), "Gauge")

	cards, total, err := svc.ListCards(testIdentity(engineer, "User"), 1, 20, "")
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if total != 2 || len(cards) != 2 {
		t.Errorf("expected engineer to see 2 cards, got total=%d len=%d", total, len(cards))
	}

	_, total, err = svc.ListCards(testIdentity(admin, "Admin"), 1, 20, "")
	if err != nil {
		t.Fatalf("ListCards as admin: %v", err)
	}
	if total != 3 {
		t.Errorf("expected admin to see all 3 cards, got %d", total)
	}

	// A grant into Engineering widens the inspector's listing
	if _, err := svc.access.GrantAccess(inspector.ID, "Engineering", "View", "admin1"); err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}
	_, total, err = svc.ListCards(testIdentity(inspector, "User"), 1, 20, "")
	if err != nil {
		t.Fatalf("ListCards after grant: %v", err)
	}
	if total != 3 {
		t.Errorf("expected inspector to see 3 cards after grant, got %d", total)
	}
}

func TestListCardsSearchFiltersByName(t *testing.T) {
	svc, db := newCardService(t)
	engineer := createTestUser(t, db, "engineer", "Engineering")

	createTestCard(t, svc, testIdentity(engineer, "User"), "Oscilloscope")
	createTestCard(t, svc, testIdentity(engineer, "User"), "Caliper")

	cards, total, err := svc.ListCards(testIdentity(engineer, "User"), 1, 20, "oscillo")
	if err != nil {
		t.Fatalf("ListCards: %v", err)
	}
	if total != 1 || len(cards) != 1 || cards[0].ProductName != "Oscilloscope" {
		t.Errorf("search did not narrow results: total=%d cards=%v", total, cards)
	}
}

func TestListForExportIgnoresPagination(t *testing.T) {
	svc, db := newCardService(t)
	engineer := createTestUser(t, db, "engineer", "Engineering")
	identity := testIdentity(engineer, "User")

	for i := 0; i < 25; i++ {
		createTestCard(t, svc, identity, "Asset")
	}

	cards, err := svc.ListForExport(identity)
	if err != nil {
		t.Fatalf("ListForExport: %v", err)
	}
	if len(cards) != 25 {
		t.Errorf("expected all 25 cards in the export, got %d", len(cards))
	}
}

func TestPublicViewHidesNonPublicCards(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	identity := testIdentity(owner, "User")

	private, err := svc.CreateCard(identity, &models.CreateCardRequest{
		ProductName: "Secret rig",
		IsPrivate:   true,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	if _, err := svc.PublicView(private.ID, "ua", "10.0.0.1"); !errors.Is(err, ErrCardNotPublic) {
		t.Errorf("private card: expected ErrCardNotPublic, got %v", err)
	}

	card := createTestCard(t, svc, identity, "Spectrometer")
	inactive := false
	if _, err := svc.UpdateCard(identity, card.ID, &models.UpdateCardRequest{QRActive: &inactive}); err != nil {
		t.Fatalf("UpdateCard: %v", err)
	}
	if _, err := svc.PublicView(card.ID, "ua", "10.0.0.1"); !errors.Is(err, ErrCardNotPublic) {
		t.Errorf("QR-disabled card: expected ErrCardNotPublic, got %v", err)
	}

	if _, err := svc.PublicView("00000000-0000-0000-0000-000000000000", "ua", "10.0.0.1"); !IsNotFound(err) {
		t.Errorf("missing card: expected record-not-found, got %v", err)
	}
}

func TestPublicViewHonorsScanSettings(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	card := createTestCard(t, svc, testIdentity(owner, "User"), "Spectrometer")

	// Default settings (no row) reveal everything
	resp, err := svc.PublicView(card.ID, "ua", "10.0.0.1")
	if err != nil {
		t.Fatalf("PublicView: %v", err)
	}
	if resp.OwnerFullName == "" {
		t.Error("expected owner shown with default settings")
	}

	hide := &models.ScanSettings{
		CardID:           card.ID,
		ShowOwner:        false,
		ShowDocuments:    false,
		ShowCustomFields: false,
	}
	if err := db.Create(hide).Error; err != nil {
		t.Fatalf("create settings: %v", err)
	}

	resp, err = svc.PublicView(card.ID, "ua", "10.0.0.1")
	if err != nil {
		t.Fatalf("PublicView with settings: %v", err)
	}
	if resp.OwnerFullName != "" || resp.OwnerDepartment != "" {
		t.Error("scan settings must hide the owner")
	}
	if resp.ProductName != "Spectrometer" {
		t.Error("identifying fields must still be served")
	}
}

func TestPublicViewRecordsScan(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	card := createTestCard(t, svc, testIdentity(owner, "User"), "Spectrometer")

	if _, err := svc.PublicView(card.ID, "test-agent", "10.0.0.7"); err != nil {
		t.Fatalf("PublicView: %v", err)
	}

	var results []models.ScanResult
	if err := db.Where("card_id = ?", card.ID).Find(&results).Error; err != nil {
		t.Fatalf("load scan results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one scan result, got %d", len(results))
	}
	if results[0].UserAgent != "test-agent" || results[0].IPAddress != "10.0.0.7" {
		t.Errorf("scan result missing request metadata: %+v", results[0])
	}
}

func TestDeleteCardRemovesSubResources(t *testing.T) {
	svc, db := newCardService(t)
	owner := createTestUser(t, db, "owner", "Engineering")
	identity := testIdentity(owner, "User")
	card := createTestCard(t, svc, identity, "Spectrometer")

	if err := db.Create(&models.IssueReport{
		CardID:     card.ID,
		Title:      "display flickers",
		Severity:   "normal",
		Status:     models.IssueStatusOpen,
		ReportedBy: "owner",
	}).Error; err != nil {
		t.Fatalf("create issue: %v", err)
	}

	if err := svc.DeleteCard(identity, card.ID); err != nil {
		t.Fatalf("DeleteCard: %v", err)
	}

	if _, err := svc.GetCard(identity, card.ID); !IsNotFound(err) {
		t.Errorf("expected card gone, got %v", err)
	}
	var count int64
	if err := db.Model(&models.IssueReport{}).Where("card_id = ?", card.ID).Count(&count).Error; err != nil {
		t.Fatalf("count issues: %v", err)
	}
	if count != 0 {
		t.Errorf("expected sub-resources removed with the card, got %d issues", count)
	}
}

package services

import (
	"errors"
	"testing"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"
	"gorm.io/gorm"
)

func newAccessService(t *testing.T) (*DepartmentAccessService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewDepartmentAccessService(
		repository.NewDepartmentAccessRepository(db),
		repository.NewUserProfileRepository(db),
		nil, // no broker in tests
	)
	return svc, db
}

func TestGrantAccessDefaultsToView(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	access, err := svc.GrantAccess(user.ID, "Quality", "", "manager1")
	if err != nil {
		t.Fatalf("GrantAccess: %v", err)
	}
	if access.AccessLevel != models.AccessLevelView {
		t.Errorf("expected blank level to default to View, got %q", access.AccessLevel)
	}
	if !access.IsActive {
		t.Error("expected a fresh grant to be active")
	}
}

func TestGrantAccessRejectsUnknownLevel(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	_, err := svc.GrantAccess(user.ID, "Quality", "Owner", "manager1")
	if !errors.Is(err, ErrInvalidAccessLevel) {
		t.Errorf("expected ErrInvalidAccessLevel, got %v", err)
	}
}

func TestGrantAccessUnknownUserIsSentinel(t *testing.T) {
	svc, _ := newAccessService(t)

	_, err := svc.GrantAccess("00000000-0000-0000-0000-000000000000", "Quality", "View", "manager1")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGrantAccessBlankDepartmentIsSentinel(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	_, err := svc.GrantAccess(user.ID, "  ", "View", "manager1")
	if !errors.Is(err, ErrDepartmentRequired) {
		t.Errorf("expected ErrDepartmentRequired, got %v", err)
	}
}

func TestGrantAccessKeepsSingleRowPerPair(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	first, err := svc.GrantAccess(user.ID, "Quality", "View", "manager1")
	if err != nil {
		t.Fatalf("first grant: %v", err)
	}

	// Re-granting with a different level must overwrite in place, and a
	// case-variant department name must hit the same row.
	second, err := svc.GrantAccess(user.ID, "quality", "Edit", "manager2")
	if err != nil {
		t.Fatalf("second grant: %v", err)
	}
	if second.ID != first.ID {
		t.Error("expected the existing grant row to be reused")
	}
	if second.AccessLevel != models.AccessLevelEdit {
		t.Errorf("expected level overwritten to Edit, got %q", second.AccessLevel)
	}

	var count int64
	if err := db.Model(&models.DepartmentAccess{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one grant row for the pair, got %d", count)
	}
}

func TestGrantAccessReactivatesRevokedRow(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	access, err := svc.GrantAccess(user.ID, "Quality", "Edit", "manager1")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}

	// Flag the row inactive directly, then re-grant
	if err := db.Model(&models.DepartmentAccess{}).Where("id = ?", access.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	restored, err := svc.GrantAccess(user.ID, "Quality", "View", "manager2")
	if err != nil {
		t.Fatalf("re-grant: %v", err)
	}
	if restored.ID != access.ID {
		t.Error("expected the inactive row to be reactivated, not duplicated")
	}
	if !restored.IsActive || restored.AccessLevel != models.AccessLevelView {
		t.Errorf("expected an active View grant, got active=%v level=%q", restored.IsActive, restored.AccessLevel)
	}
}

func TestRevokeAccessIsVerifiedByRowCount(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")
	admin := createTestUser(t, db, "admin1", "IT")

	access, err := svc.GrantAccess(user.ID, "Quality", "View", "admin1")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}

	revoked, err := svc.RevokeAccess(testIdentity(admin, "Admin"), access.ID)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !revoked {
		t.Error("expected first revoke to report true")
	}

	// Second revoke deletes nothing and must report false, not error
	revoked, err = svc.RevokeAccess(testIdentity(admin, "Admin"), access.ID)
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if revoked {
		t.Error("expected second revoke to report false")
	}
}

func TestRevokeAccessScopesManagerToHomeDepartment(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Sales")
	manager := createTestUser(t, db, "manager1", "Engineering")

	// A grant into a foreign department is out of the manager's reach
	foreign, err := svc.GrantAccess(user.ID, "Quality", "View", "admin")
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.RevokeAccess(testIdentity(manager, "Manager"), foreign.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized for a foreign-department grant, got %v", err)
	}
	if ok, err := svc.accessRepo.ActiveGrantExists(user.ID, "Quality"); err != nil || !ok {
		t.Errorf("foreign grant must survive the rejected revoke: ok=%v err=%v", ok, err)
	}

	// A grant into the manager's home department can be revoked
	home, err := svc.GrantAccess(user.ID, "engineering", "View", "admin")
	if err != nil {
		t.Fatalf("home grant: %v", err)
	}
	revoked, err := svc.RevokeAccess(testIdentity(manager, "Manager"), home.ID)
	if err != nil {
		t.Fatalf("revoke home grant: %v", err)
	}
	if !revoked {
		t.Error("expected the manager to revoke a home-department grant")
	}

	// A plain user may not revoke at all
	outsider := createTestUser(t, db, "outsider", "Quality")
	if _, err := svc.RevokeAccess(testIdentity(outsider, "User"), foreign.ID); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized for a plain user, got %v", err)
	}
}

func TestHomeDepartmentAlwaysAccessible(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	ok, err := svc.HasAccessToDepartment(user.ID, "engineering")
	if err != nil {
		t.Fatalf("HasAccessToDepartment: %v", err)
	}
	if !ok {
		t.Error("home department must be accessible regardless of case")
	}

	ok, err = svc.HasAccessLevelToDepartment(user.ID, "Engineering", models.AccessLevelEdit)
	if err != nil {
		t.Fatalf("HasAccessLevelToDepartment: %v", err)
	}
	if !ok {
		t.Error("home department must satisfy any level requirement")
	}

	ok, err = svc.HasAccessToDepartment(user.ID, "Quality")
	if err != nil {
		t.Fatalf("HasAccessToDepartment: %v", err)
	}
	if ok {
		t.Error("ungranted foreign department must not be accessible")
	}
}

func TestEditImpliesViewOneWay(t *testing.T) {
	svc, db := newAccessService(t)
	editor := createTestUser(t, db, "editor", "Engineering")
	viewer := createTestUser(t, db, "viewer", "Engineering")

	if _, err := svc.GrantAccess(editor.ID, "Quality", "Edit", "admin"); err != nil {
		t.Fatalf("grant edit: %v", err)
	}
	if _, err := svc.GrantAccess(viewer.ID, "Quality", "View", "admin"); err != nil {
		t.Fatalf("grant view: %v", err)
	}

	if ok, _ := svc.HasAccessLevelToDepartment(editor.ID, "Quality", models.AccessLevelView); !ok {
		t.Error("Edit grant must satisfy a View requirement")
	}
	if ok, _ := svc.HasAccessLevelToDepartment(viewer.ID, "Quality", models.AccessLevelEdit); ok {
		t.Error("View grant must never satisfy an Edit requirement")
	}
}

func TestGetAccessibleDepartmentsDeduplicates(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	if _, err := svc.GrantAccess(user.ID, "Quality", "View", "admin"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	// A grant into the home department must not produce a duplicate
	if _, err := svc.GrantAccess(user.ID, "ENGINEERING", "Edit", "admin"); err != nil {
		t.Fatalf("home grant: %v", err)
	}

	departments, err := svc.GetAccessibleDepartments(user.ID)
	if err != nil {
		t.Fatalf("GetAccessibleDepartments: %v", err)
	}
	if len(departments) != 2 {
		t.Fatalf("expected 2 departments, got %v", departments)
	}
	if departments[0] != "Engineering" {
		t.Errorf("expected home department first, got %v", departments)
	}
}

func TestListGrantsRequiresPrivilege(t *testing.T) {
	svc, db := newAccessService(t)
	user := createTestUser(t, db, "jdoe", "Engineering")

	_, err := svc.ListGrants(testIdentity(user, "User"))
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized for a plain user, got %v", err)
	}
}

func TestListGrantsScopesManagerToHomeDepartment(t *testing.T) {
	svc, db := newAccessService(t)
	manager := createTestUser(t, db, "manager1", "Engineering")
	inside := createTestUser(t, db, "inside", "Quality")
	outside := createTestUser(t, db, "outside", "Quality")

	if _, err := svc.GrantAccess(inside.ID, "Engineering", "View", "manager1"); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := svc.GrantAccess(outside.ID, "Sales", "View", "admin"); err != nil {
		t.Fatalf("grant: %v", err)
	}

	grants, err := svc.ListGrants(testIdentity(manager, "Manager"))
	if err != nil {
		t.Fatalf("ListGrants: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected only home-department grants, got %d", len(grants))
	}
	if grants[0].DepartmentName != "Engineering" || grants[0].Username != "inside" {
		t.Errorf("unexpected grant listed: %+v", grants[0])
	}

	all, err := svc.ListGrants(testIdentity(manager, "Admin"))
	if err != nil {
		t.Fatalf("ListGrants as admin: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected admin to see all grants, got %d", len(all))
	}
}

func TestListGrantCandidatesExcludesDepartmentMembers(t *testing.T) {
	svc, db := newAccessService(t)
	admin := createTestUser(t, db, "admin1", "IT")
	createTestUser(t, db, "member", "Quality")
	createTestUser(t, db, "candidate", "Engineering")

	candidates, err := svc.ListGrantCandidates(testIdentity(admin, "Admin"), "Quality")
	if err != nil {
		t.Fatalf("ListGrantCandidates: %v", err)
	}
	for _, c := range candidates {
		if c.Username == "member" {
			t.Error("department members must not appear as grant candidates")
		}
	}

	// A manager is forced onto their own department
	manager := createTestUser(t, db, "manager1", "Quality")
	candidates, err = svc.ListGrantCandidates(testIdentity(manager, "Manager"), "Engineering")
	if err != nil {
		t.Fatalf("ListGrantCandidates as manager: %v", err)
	}
	for _, c := range candidates {
		if c.Username == "member" || c.Username == "manager1" {
			t.Errorf("candidate list leaked a Quality member: %s", c.Username)
		}
	}
}

package services

import (
	"testing"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database"
	"github.com/smt-intra/asset-tag-services-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a per-test in-memory database with the full schema and
// role seed applied
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// createTestUser inserts a profile fixture
func createTestUser(t *testing.T, db *gorm.DB, username, department string) *models.UserProfile {
	t.Helper()

	now := time.Now()
	profile := &models.UserProfile{
		Username:       username,
		DepartmentName: department,
		IsActive:       true,
		FirstLoginAt:   &now,
		LastLoginAt:    &now,
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("failed to create test user %s: %v", username, err)
	}
	return profile
}

// testIdentity builds a session identity for a stored profile
func testIdentity(profile *models.UserProfile, roles ...string) *models.SessionIdentity {
	return &models.SessionIdentity{
		Username:       profile.Username,
		UserID:         profile.ID,
		DepartmentName: profile.DepartmentName,
		LoginAt:        time.Now(),
		Roles:          roles,
	}
}

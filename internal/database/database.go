package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/smt-intra/asset-tag-services-backend/internal/models"
)

// DB is the global database instance
var DB *gorm.DB

// DefaultRoles is the fixed seed set created on startup
var DefaultRoles = []struct {
	Name        string
	Description string
}{
	{"Admin", "Full administrative access"},
	{"Manager", "Can manage department access for their own department"},
	{"User", "Standard authenticated user"},
	{"Edit", "Can edit cards in accessible departments"},
	{"View", "Can view cards in accessible departments"},
}

// InitDB initializes the database connection and performs migrations
func InitDB() (*gorm.DB, error) {
	// Get database connection parameters from environment variables
	host := getEnv("DB_HOST", "")
	port := getEnv("DB_PORT", "")
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	dbname := getEnv("DB_NAME", "")
	sslmode := getEnv("DB_SSLMODE", "disable")

	// Validate required environment variables
	if host == "" || port == "" || user == "" || password == "" || dbname == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	// Create DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Open database connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Enable UUID generation
	err = db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error
	if err != nil {
		return nil, fmt.Errorf("failed to enable UUID extension: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	// Set global DB instance
	DB = db

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate runs schema migrations and seeds the default roles. Split out
// of InitDB so tests can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.UserProfile{},
		&models.Role{},
		&models.UserRole{},
		&models.DepartmentAccess{},
		&models.Card{},
		&models.CardDocument{},
		&models.IssueReport{},
		&models.MaintenanceReminder{},
		&models.ScanSettings{},
		&models.ScanResult{},
		&models.Template{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Migration: composite index on department_accesses for the grant
	// lookup path
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_department_accesses_user_dept
		ON department_accesses(user_id, department_name)
	`).Error
	if err != nil {
		logrus.Warnf("Failed to create index on department_accesses: %v", err)
	}

	return SeedDefaultRoles(db)
}

// SeedDefaultRoles creates the fixed role set if missing
func SeedDefaultRoles(db *gorm.DB) error {
	for _, roleData := range DefaultRoles {
		normalized := strings.ToUpper(roleData.Name)
		var count int64
		err := db.Model(&models.Role{}).
			Where("normalized_name = ?", normalized).
			Count(&count).Error
		if err != nil {
			logrus.Warnf("Failed to check if %s role exists: %v", roleData.Name, err)
			continue
		}
		if count == 0 {
			logrus.Infof("Creating default role '%s'...", roleData.Name)
			role := &models.Role{
				Name:             roleData.Name,
				NormalizedName:   normalized,
				Description:      roleData.Description,
				ConcurrencyStamp: uuid.New().String(),
			}
			if err := db.Create(role).Error; err != nil {
				logrus.Warnf("Failed to create %s role: %v", roleData.Name, err)
			}
		}
	}
	return nil
}

// GetDB returns the global database instance
func GetDB() *gorm.DB {
	return DB
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

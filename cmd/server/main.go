package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database"
	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/router"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/auth"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/directory"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/enrichment"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/excel"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/storage"
	"github.com/smt-intra/asset-tag-services-backend/internal/utils"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	// Import Swagger docs
	_ "github.com/smt-intra/asset-tag-services-backend/docs"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Configure logging
	configureLogging()

	// Initialize Sentry
	utils.InitSentry()

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}

	// Repositories
	profileRepo := repository.NewUserProfileRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	accessRepo := repository.NewDepartmentAccessRepository(db)
	cardRepo := repository.NewCardRepository(db)
	scanRepo := repository.NewScanRepository(db)
	issueRepo := repository.NewIssueReportRepository(db)
	reminderRepo := repository.NewMaintenanceReminderRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	// Audit event publisher (RabbitMQ); a broker outage degrades to
	// log-only auditing
	auditService, err := services.NewAuditService()
	if err != nil {
		logrus.Warnf("Failed to initialize audit publisher: %v", err)
	} else {
		logrus.Info("Audit publisher initialized")
		defer auditService.Close()
	}

	// Domain services
	profileService := services.NewUserProfileService(profileRepo)
	roleService := services.NewRoleService(roleRepo, profileRepo)
	accessService := services.NewDepartmentAccessService(accessRepo, profileRepo, auditService)
	cardService := services.NewCardService(cardRepo, scanRepo, accessService, auditService)
	templateService := services.NewTemplateService(templateRepo, cardRepo)
	issueService := services.NewIssueReportService(issueRepo, auditService)
	reminderService := services.NewMaintenanceReminderService(reminderRepo, auditService)
	scanService := services.NewScanService(scanRepo)
	qrService := services.NewQRService()
	excelService := excel.NewExcelService()
	storageClient := storage.NewClient()

	// Auth stack: corporate directory + HR enrichment + session cache
	directoryService := directory.NewService()
	enrichmentClient := enrichment.NewClient()
	authService := auth.NewAuthService(directoryService, enrichmentClient, profileService, roleService, accessService, auditService)

	// Start the session janitor
	authService.Store().Start()
	defer authService.Store().Stop()

	// Start the maintenance reminder sweeper
	reminderService.Start()
	defer reminderService.Stop()

	// Initialize router
	r := router.SetupRouter(router.Deps{
		DB:              db,
		AuthService:     authService,
		ProfileService:  profileService,
		RoleService:     roleService,
		AccessService:   accessService,
		CardService:     cardService,
		TemplateService: templateService,
		IssueService:    issueService,
		ReminderService: reminderService,
		ScanService:     scanService,
		QRService:       qrService,
		ExcelService:    excelService,
		StorageClient:   storageClient,
	})

	// Configure HTTP server
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Server starting on port %s", port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Create a deadline for server shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the server
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging() {
	logLevel := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

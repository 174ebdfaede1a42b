package router

import (
	"time"

	"github.com/smt-intra/asset-tag-services-backend/internal/database/repository"
	"github.com/smt-intra/asset-tag-services-backend/internal/handlers"
	"github.com/smt-intra/asset-tag-services-backend/internal/middleware"
	"github.com/smt-intra/asset-tag-services-backend/internal/services"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/auth"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/excel"
	"github.com/smt-intra/asset-tag-services-backend/internal/services/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// Deps carries the long-lived services the router wires into handlers
type Deps struct {
	DB              *gorm.DB
	AuthService     *auth.AuthService
	ProfileService  *services.UserProfileService
	RoleService     *services.RoleService
	AccessService   *services.DepartmentAccessService
	CardService     *services.CardService
	TemplateService *services.TemplateService
	IssueService    *services.IssueReportService
	ReminderService *services.MaintenanceReminderService
	ScanService     *services.ScanService
	QRService       *services.QRService
	ExcelService    *excel.Service
	StorageClient   *storage.Client
}

// SetupRouter configures the Gin router with all application routes
func SetupRouter(deps Deps) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create a new router
	r := gin.New()

	// Use middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Create middleware with services
	sessionMiddleware := middleware.NewSessionMiddleware(deps.AuthService)

	// Create handlers with services
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	profileHandler := handlers.NewProfileHandler(deps.ProfileService)
	roleHandler := handlers.NewRoleHandler(deps.RoleService)
	accessHandler := handlers.NewDepartmentAccessHandler(deps.AccessService)
	cardHandler := handlers.NewCardHandler(deps.CardService, deps.QRService, deps.ExcelService)
	documentHandler := handlers.NewCardDocumentHandler(deps.CardService, repository.NewCardDocumentRepository(deps.DB), deps.StorageClient)
	issueHandler := handlers.NewIssueReportHandler(deps.CardService, deps.IssueService)
	reminderHandler := handlers.NewReminderHandler(deps.CardService, deps.ReminderService)
	scanHandler := handlers.NewScanHandler(deps.CardService, deps.ScanService)
	templateHandler := handlers.NewTemplateHandler(deps.TemplateService)
	publicHandler := handlers.NewPublicHandler(deps.CardService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Anonymous QR scan endpoint
	r.GET("/public/cards/:id", publicHandler.ScanCard)

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.POST("/directory-attributes", authHandler.DirectoryAttributes)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(sessionMiddleware.RequireSession())
		{
			protected.GET("/auth/me", authHandler.Me)

			// Profile routes
			profiles := protected.Group("/profiles")
			{
				profiles.GET("/me", profileHandler.GetMyProfile)
				profiles.PUT("/me", profileHandler.UpdateMyProfile)
			}

			// User administration
			users := protected.Group("/users")
			users.Use(sessionMiddleware.RequireRoles("Admin", "Manager"))
			{
				users.GET("", profileHandler.ListUsers)
				users.GET("/:userId/roles", roleHandler.GetUserRoles)
			}

			// Role management (admin only)
			roles := protected.Group("/roles")
			roles.Use(sessionMiddleware.RequireRoles("Admin"))
			{
				roles.GET("", roleHandler.ListRoles)
				roles.POST("", roleHandler.CreateRole)
				roles.PUT("/:id", roleHandler.UpdateRole)
				roles.DELETE("/:id", roleHandler.DeleteRole)
			}

			roleAssignments := protected.Group("/users")
			roleAssignments.Use(sessionMiddleware.RequireRoles("Admin"))
			{
				roleAssignments.POST("/:userId/roles", roleHandler.AssignRole)
				roleAssignments.DELETE("/:userId/roles/:roleId", roleHandler.RemoveRole)
			}

			// Department access management
			access := protected.Group("/department-access")
			{
				access.GET("/mine", accessHandler.MyDepartments)

				managed := access.Group("")
				managed.Use(sessionMiddleware.RequireRoles("Admin", "Manager"))
				{
					managed.GET("", accessHandler.ListGrants)
					managed.POST("", accessHandler.GrantAccess)
					managed.DELETE("/:id", accessHandler.RevokeAccess)
					managed.GET("/candidates", accessHandler.ListGrantCandidates)
				}
			}

			// Card routes
			cards := protected.Group("/cards")
			{
				cards.POST("", cardHandler.CreateCard)
				cards.GET("", cardHandler.ListCards)
				cards.GET("/export", cardHandler.ExportCards)
				cards.GET("/:id", cardHandler.GetCard)
				cards.PUT("/:id", cardHandler.UpdateCard)
				cards.DELETE("/:id", cardHandler.DeleteCard)
				cards.GET("/:id/qr", cardHandler.GetCardQR)

				cards.POST("/:id/documents", documentHandler.UploadDocument)
				cards.GET("/:id/documents", documentHandler.ListDocuments)
				cards.DELETE("/:id/documents/:docId", documentHandler.DeleteDocument)

				cards.POST("/:id/issues", issueHandler.ReportIssue)
				cards.GET("/:id/issues", issueHandler.ListIssues)
				cards.POST("/:id/issues/:issueId/resolve", issueHandler.ResolveIssue)
				cards.DELETE("/:id/issues/:issueId", issueHandler.DeleteIssue)

				cards.POST("/:id/reminders", reminderHandler.CreateReminder)
				cards.GET("/:id/reminders", reminderHandler.ListReminders)
				cards.POST("/:id/reminders/:reminderId/complete", reminderHandler.CompleteReminder)
				cards.DELETE("/:id/reminders/:reminderId", reminderHandler.DeleteReminder)

				cards.GET("/:id/scan-settings", scanHandler.GetScanSettings)
				cards.PUT("/:id/scan-settings", scanHandler.UpdateScanSettings)
				cards.GET("/:id/scans", scanHandler.GetScanHistory)
			}

			// Template routes
			templates := protected.Group("/templates")
			{
				templates.GET("", templateHandler.ListTemplates)
				templates.GET("/:id", templateHandler.GetTemplate)

				editors := templates.Group("")
				editors.Use(sessionMiddleware.RequireRoles("Admin", "Manager", "Edit"))
				{
					editors.POST("", templateHandler.CreateTemplate)
					editors.PUT("/:id", templateHandler.UpdateTemplate)
					editors.DELETE("/:id", templateHandler.DeleteTemplate)
				}
			}
		}
	}

	return r
}

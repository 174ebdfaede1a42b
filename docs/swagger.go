// Package docs provides Swagger documentation for the API.
package docs

// @title Asset Tag Services API
// @version 1.0
// @description Internal asset tagging backend: cards with QR tags, documents, issues, maintenance reminders and department-scoped access control
// @termsOfService http://swagger.io/terms/

// @contact.name Intranet Platform Team

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
// @description Session token as `Bearer <token>`; browser clients use the asset_session cookie instead

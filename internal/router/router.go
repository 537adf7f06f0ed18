package router

import (
	"avaliaja_backend/internal/handlers"
	"avaliaja_backend/internal/middleware"
	"avaliaja_backend/internal/repositories"
	"avaliaja_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Repositories groups the storage backend implementations the router wires
// into services. Main constructs either the Postgres or the embedded-file
// set; everything above this point is backend-agnostic.
type Repositories struct {
	Auth     repositories.AuthRepository
	Clients  repositories.ClientRepository
	Business repositories.BusinessRepository
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, repos Repositories) {
	// Initialize Services
	authService := services.NewAuthService(repos.Auth)
	businessService := services.NewBusinessService(repos.Business)
	clientService := services.NewClientService(repos.Clients, repos.Business)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	businessHandler := handlers.NewBusinessHandler(businessService)
	clientHandler := handlers.NewClientHandler(clientService)

	apiV1 := engine.Group("/api/v1")

	// Public authentication routes
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	// Authenticated routes
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupClientRoutes(authenticated, clientHandler)
		SetupBusinessRoutes(authenticated, businessHandler)
	}
}

package router

import (
	"avaliaja_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up the unauthenticated auth routes.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes sets up auth routes requiring a valid token.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/metrics", clientHandler.GetMetrics)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.POST("/:id/request-review", clientHandler.RequestReview)
		clientRoutes.POST("/:id/mark-reviewed", clientHandler.MarkReviewed)
	}
}

// SetupBusinessRoutes sets up the business configuration routes.
func SetupBusinessRoutes(authenticatedGroup *gin.RouterGroup, businessHandler *handlers.BusinessHandler) {
	businessRoutes := authenticatedGroup.Group("/business")
	{
		businessRoutes.GET("/config", businessHandler.GetConfig)
		businessRoutes.POST("/config", businessHandler.SaveConfig)
		businessRoutes.PUT("/config", businessHandler.UpdateConfig)
	}
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"avaliaja_backend/internal/database"
	"avaliaja_backend/internal/repositories"
	"avaliaja_backend/internal/router"
	"avaliaja_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	utils.InitLogger()
	utils.InitJWT(utils.Getenv("JWT_SECRET", ""))

	repos, cleanup, err := buildRepositories()
	if err != nil {
		utils.LogError(err, "Failed to initialize storage backend")
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	defer cleanup()

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, repos)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildRepositories selects the persistence backend from DB_DRIVER and wires
// the repository set for it. The returned cleanup closes the backend handle.
func buildRepositories() (router.Repositories, func(), error) {
	driver := strings.ToLower(utils.Getenv("DB_DRIVER", "postgres"))

	switch driver {
	case "bolt":
		boltPath := utils.Getenv("BOLT_PATH", "avaliaja.db")
		db, err := database.OpenBolt(boltPath)
		if err != nil {
			return router.Repositories{}, nil, err
		}
		if err := repositories.SetupBoltBuckets(db); err != nil {
			db.Close()
			return router.Repositories{}, nil, err
		}
		utils.LogInfo("Storage backend initialized", map[string]interface{}{"driver": "bolt", "path": boltPath})
		repos := router.Repositories{
			Auth:     repositories.NewBoltAuthRepository(db),
			Clients:  repositories.NewBoltClientRepository(db),
			Business: repositories.NewBoltBusinessRepository(db),
		}
		return repos, func() { db.Close() }, nil

	case "postgres":
		dbHost := utils.Getenv("DB_HOST", "localhost")
		dbPort := utils.Getenv("DB_PORT", "5432")
		dbUser := utils.Getenv("DB_USER", "avaliaja_user")
		dbPassword := utils.Getenv("DB_PASSWORD", "avaliaja_password")
		dbName := utils.Getenv("DB_NAME", "avaliaja_db")
		dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
		dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

		db, err := database.Open(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
		if err != nil {
			return router.Repositories{}, nil, err
		}
		if err := database.ApplySchema(db, dbSchemaPath); err != nil {
			db.Close()
			return router.Repositories{}, nil, err
		}
		utils.LogInfo("Storage backend initialized", map[string]interface{}{"driver": "postgres", "host": dbHost, "database": dbName})
		repos := router.Repositories{
			Auth:     repositories.NewAuthRepository(db),
			Clients:  repositories.NewClientRepository(db),
			Business: repositories.NewBusinessRepository(db),
		}
		return repos, func() { db.Close() }, nil

	default:
		return router.Repositories{}, nil, fmt.Errorf("unknown DB_DRIVER %q (expected \"postgres\" or \"bolt\")", driver)
	}
}

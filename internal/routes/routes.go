package routes

import (
	"encoding/json"

	"expiring-map-api/internal/auth"
	"expiring-map-api/internal/cache"
	"expiring-map-api/internal/handlers"
	"expiring-map-api/internal/middleware"
	"expiring-map-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the shared services the HTTP layer is wired to.
type Dependencies struct {
	DB     *gorm.DB
	Tokens *auth.TokenIssuer
	Cache  cache.Cache[string, json.RawMessage]
	Hub    *realtime.Hub
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	// Create a new GIN Router
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Expiring map API is running",
		})
	})

	authHandler := &handlers.AuthHandler{DB: deps.DB, Tokens: deps.Tokens}
	userHandler := &handlers.UserHandler{DB: deps.DB}
	entryHandler := &handlers.EntryHandler{Cache: deps.Cache, Hub: deps.Hub}
	wsHandler := &handlers.WSHandler{Hub: deps.Hub}

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/login", authHandler.Login)
	}

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	{
		// Entry endpoints
		protectedRoutes.GET("/entries/:key", entryHandler.GetEntry)
		protectedRoutes.PUT("/entries/:key", entryHandler.PutEntry)
		protectedRoutes.PATCH("/entries/:key", entryHandler.UpdateEntry)
		protectedRoutes.DELETE("/entries/:key", entryHandler.DeleteEntry)
		protectedRoutes.POST("/entries/sweep", entryHandler.SweepEntries)
		protectedRoutes.GET("/stats", entryHandler.GetStats)
		// Users endpoint
		protectedRoutes.GET("/users", userHandler.GetAllUsers)
		// Event stream
		protectedRoutes.GET("/ws", wsHandler.Subscribe)
	}

	return ginRouter
}

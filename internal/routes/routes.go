package routes

import (
	"schedulsy-api/internal/auth"
	"schedulsy-api/internal/database"
	"schedulsy-api/internal/handlers"
	"schedulsy-api/internal/middleware"
	"schedulsy-api/internal/tracker"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the routes are wired to.
type Dependencies struct {
	Users    *database.UserRepository
	Hasher   *auth.PasswordHasher
	Tokens   *auth.TokenIssuer
	Provider *auth.Provider
	Stores   *tracker.Manager
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
			"status":   "ok",
			"message":  "Schedulsy API is running",
			"sessions": deps.Stores.Len(),
		})
	})

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Hasher, deps.Tokens, deps.Provider, deps.Stores)
	sessionHandler := handlers.NewSessionHandler(deps.Stores)
	taskHandler := handlers.NewTaskHandler(deps.Stores)
	userHandler := handlers.NewUserHandler(deps.Users)

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
	}

	// Protected routes (session gate)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.SessionGate(deps.Provider))
	{
		protectedRoutes.POST("/logout", authHandler.Logout)
		protectedRoutes.GET("/me", userHandler.GetProfile)
		protectedRoutes.GET("/session", sessionHandler.GetSession)
		protectedRoutes.GET("/dashboard", sessionHandler.GetDashboard)

		// Task endpoints
		protectedRoutes.GET("/tasks", taskHandler.GetTasks)
		protectedRoutes.GET("/tasks/:id", taskHandler.GetTaskByID)
		protectedRoutes.POST("/tasks", taskHandler.CreateTask)
		protectedRoutes.PATCH("/tasks/:id/toggle", taskHandler.ToggleTask)
		protectedRoutes.DELETE("/tasks/:id", taskHandler.DeleteTask)
		protectedRoutes.GET("/metrics", taskHandler.GetMetrics)
	}

	return ginRouter
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/abira1/Toi-Task/internal/authz"
	"github.com/abira1/Toi-Task/internal/config"
	"github.com/abira1/Toi-Task/internal/constants"
	"github.com/abira1/Toi-Task/internal/database"
	"github.com/abira1/Toi-Task/internal/handlers"
	"github.com/abira1/Toi-Task/internal/identity"
	"github.com/abira1/Toi-Task/internal/logger"
	"github.com/abira1/Toi-Task/internal/middleware"
	"github.com/abira1/Toi-Task/internal/notify"
	"github.com/abira1/Toi-Task/internal/projector"
	"github.com/abira1/Toi-Task/internal/realtime"
	"github.com/abira1/Toi-Task/internal/repository"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	appLogger := logger.NewLogger("api")
	defer appLogger.Sync()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Process lifecycle context: background work stops with the server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire the data layer and change bus
	db := database.GetDB()
	bus := realtime.NewBus()
	memberRepo := repository.NewMemberRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Live projection of tasks and roster
	feedProjector := projector.New(taskRepo, memberRepo, bus, appLogger)
	go feedProjector.Run(ctx)

	// Authorization resolution
	verifier := identity.NewVerifier(cfg.IdentitySecret)
	resolver := authz.NewResolver(cfg.AdminEmails, memberRepo, appLogger)

	// Notification fan-out, detached from user actions
	fcmClient := notify.NewFCMClient(cfg.FCMEndpoint, cfg.FCMServerKey)
	fanout := notify.NewFanout(memberRepo, tokenRepo, fcmClient, appLogger)
	dispatcher := notify.NewDispatcher(fanout, 64, appLogger)
	dispatcher.Start(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(verifier, resolver, tokenRepo, appLogger)
	taskHandler := handlers.NewTaskHandler(feedProjector, dispatcher, appLogger)
	memberHandler := handlers.NewMemberHandler(feedProjector, appLogger)
	tokenHandler := handlers.NewTokenHandler(tokenRepo, appLogger)
	feedHandler := handlers.NewFeedHandler(feedProjector, bus, cfg.AllowedOrigins, appLogger)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Toi-Task API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task feed routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/toggle", taskHandler.ToggleTask)
			tasks.POST("/:id/like", taskHandler.LikeTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
			tasks.DELETE("/:id/comments/:commentId", taskHandler.DeleteComment)
		}

		// Roster routes (reads protected, writes admin-only)
		members := api.Group("/team-members")
		members.Use(middleware.RequireAuth())
		{
			members.GET("", memberHandler.ListMembers)
			members.POST("", middleware.RequireAdmin(), memberHandler.CreateMember)
			members.PUT("/:id", middleware.RequireAdmin(), memberHandler.UpdateMember)
			members.DELETE("/:id", middleware.RequireAdmin(), memberHandler.DeleteMember)
		}

		// Push token registry (protected)
		api.PUT("/fcm-token", middleware.RequireAuth(), tokenHandler.SaveToken)
		api.DELETE("/fcm-token", middleware.RequireAuth(), tokenHandler.DeleteToken)

		// Live feed stream (protected)
		api.GET("/feed/ws", middleware.RequireAuth(), feedHandler.Stream)
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

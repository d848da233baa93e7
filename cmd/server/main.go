package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/truehomes/truehomes-api/internal/config"
	"github.com/truehomes/truehomes-api/internal/database"
	"github.com/truehomes/truehomes-api/internal/handlers"
	"github.com/truehomes/truehomes-api/internal/middleware"
	"github.com/truehomes/truehomes-api/internal/repository"
	"github.com/truehomes/truehomes-api/internal/services"
	"github.com/truehomes/truehomes-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.MigrateDatabase(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Object storage client
	uploader, err := storage.NewUploader(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	// Repositories and services
	userRepo := repository.NewUserRepository(database.GetDB())
	listingRepo := repository.NewListingRepository(database.GetDB())

	tokens := services.NewTokenService(cfg.JWTSecret)
	mailer := services.NewMailService(cfg.EmailAPIKey, cfg.EmailSender)
	authService := services.NewAuthService(userRepo, tokens, mailer, cfg.ClientURL)
	userService := services.NewUserService(userRepo)
	listingService := services.NewListingService(listingRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokens)
	userHandler := handlers.NewUserHandler(userService, listingService, uploader)
	listingHandler := handlers.NewListingHandler(listingService, uploader)

	// Initialize Gin router
	r := gin.Default()

	// The session cookie must survive cross-origin requests from the client app
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "TrueHomes API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/google", authHandler.Google)
			auth.GET("/signout", authHandler.Signout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password/:token", authHandler.ResetPassword)
		}

		// User routes (protected, self-service only)
		user := api.Group("/user")
		user.Use(middleware.RequireAuth(tokens))
		{
			user.POST("/update/:id", userHandler.Update)
			user.DELETE("/delete/:id", userHandler.Delete)
			user.GET("/listings/:id", userHandler.Listings)
		}

		// Listing routes
		listing := api.Group("/listing")
		{
			// Public reads
			listing.GET("/get/:id", listingHandler.Get)
			listing.GET("/get", listingHandler.Search)

			// Mutations (ownership-gated)
			listing.POST("/create", middleware.RequireAuth(tokens), listingHandler.Create)
			listing.POST("/upload", middleware.RequireAuth(tokens), listingHandler.Upload)
			listing.POST("/update/:id", middleware.RequireAuth(tokens), middleware.RequireListingOwner(), listingHandler.Update)
			listing.DELETE("/delete/:id", middleware.RequireAuth(tokens), middleware.RequireListingOwner(), listingHandler.Delete)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/takabora/takabora-backend/internal/config"
	"github.com/takabora/takabora-backend/internal/handlers"
	"github.com/takabora/takabora-backend/internal/middleware"
	"github.com/takabora/takabora-backend/internal/services"
	"github.com/takabora/takabora-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	listingService := services.NewListingService(db)
	conversationService := services.NewConversationService(db)
	userService := services.NewUserService(db)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingService, storageService)
	transactionHandler := handlers.NewTransactionHandler(conversationService)
	userHandler := handlers.NewUserHandler(userService)
	webhookHandler := handlers.NewWebhookHandler(userService, cfg)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Listing routes
		listings := v1.Group("/listings")
		{
			// Public marketplace feed
			listings.GET("/all", middleware.OptionalAuth(), listingHandler.BrowseListings)

			protected := listings.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.GET("", listingHandler.GetMyListings)
				protected.POST("", listingHandler.CreateListing)
				protected.POST("/photos", middleware.UploadRateLimit(), listingHandler.UploadPhotos)
				protected.GET("/:id", listingHandler.GetListing)
				protected.PUT("/:id", listingHandler.UpdateListing)
				protected.DELETE("/:id", listingHandler.DeleteListing)
			}
		}

		// Transaction and chat routes
		transactions := v1.Group("/transactions")
		transactions.Use(middleware.AuthRequired())
		{
			transactions.GET("", transactionHandler.GetConversations)
			transactions.POST("", transactionHandler.ClaimListing)
			transactions.GET("/:id/messages", transactionHandler.GetMessages)
			transactions.POST("/:id/messages", transactionHandler.SendMessage)
			transactions.POST("/:id/messages/read", transactionHandler.MarkMessagesRead)
			transactions.PATCH("/:id/status", transactionHandler.UpdateStatus)
		}

		// User directory routes (read-only mirror of the identity provider)
		users := v1.Group("/users")
		users.Use(middleware.OptionalAuth())
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/type/:type", userHandler.GetUsersByType)
			users.GET("/:externalID", userHandler.GetUser)
		}

		// Identity provider webhook (authenticated by HMAC signature)
		webhooks := v1.Group("/webhooks")
		webhooks.Use(middleware.WebhookRateLimit())
		{
			webhooks.POST("/identity", webhookHandler.HandleIdentityEvent)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

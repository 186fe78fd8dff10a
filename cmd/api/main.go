package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spendly/internal/config"
	"spendly/internal/database"
	"spendly/internal/handlers"
	"spendly/internal/logger"
	"spendly/internal/middleware"
	"spendly/internal/notifier"
	"spendly/internal/push"
	"spendly/internal/services"
	"spendly/internal/validator"
	"spendly/internal/vision"

	_ "spendly/internal/docs" // Import swagger docs
)

// @title           Spendly API
// @version         1.0
// @description     Spendly is an expense tracking backend with budgets, AI-assisted receipt and voice capture, and budget reminder notifications.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// External providers
	httpClient := &http.Client{Timeout: 30 * time.Second}
	pushSender := push.NewExpoClient(appConfig.PushAPIURL, appConfig.PushAccessToken, httpClient)
	captureParser := vision.NewClient(appConfig.CaptureAPIURL, appConfig.CaptureAPIKey, httpClient)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	preferencesService := services.NewPreferencesService(db)
	budgetService := services.NewBudgetService(db, preferencesService, expenseService)
	subscriptionService := services.NewSubscriptionService(db)
	notificationService := services.NewNotificationService(db, userService, pushSender)
	auditService := services.NewAuditService(db)

	budgetNotifier := notifier.New(db, expenseService, pushSender, appConfig.NotifierInterval)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, categoryService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	screensHandler := handlers.NewScreensHandler(expenseService, budgetService, categoryService)
	captureHandler := handlers.NewCaptureHandler(captureParser, expenseService, subscriptionService, auditService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, budgetNotifier)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// Provider webhooks, authenticated by shared secret
	webhooks := v1.Group("/webhooks")
	webhooks.Use(middleware.WebhookAuthMiddleware(appConfig.WebhookSecret))
	webhooks.POST("/subscription", subscriptionHandler.HandleWebhook)

	// Job triggers for external cron, authenticated by API key
	jobs := v1.Group("/jobs")
	jobs.Use(middleware.JobAuthMiddleware(appConfig.JobAPIKey))
	jobs.POST("/notifications/run", notificationHandler.RunNotifier)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile/push-token", authHandler.UpdatePushToken)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Preferences and budget progress
	protected.GET("/preferences", preferencesHandler.GetPreferences)
	protected.PUT("/preferences", preferencesHandler.UpdatePreferences)
	protected.GET("/budget/progress", budgetHandler.GetProgress)

	// Aggregated screen payloads
	screens := protected.Group("/screens")
	screens.GET("/dashboard", screensHandler.Dashboard)
	screens.GET("/expenses", screensHandler.Expenses)
	screens.GET("/analytics", screensHandler.Analytics)

	// AI capture
	capture := protected.Group("/capture")
	capture.POST("/receipt", captureHandler.CaptureReceipt)
	capture.POST("/voice", captureHandler.CaptureVoice)

	// Subscription entitlement
	protected.GET("/subscription", subscriptionHandler.GetSubscription)

	// Notifications
	protected.POST("/notifications/test", notificationHandler.SendTest)

	log.Infof("Starting Spendly backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

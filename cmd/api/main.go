package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fintra/internal/config"
	"fintra/internal/database"
	"fintra/internal/engine"
	"fintra/internal/handlers"
	"fintra/internal/live"
	"fintra/internal/logger"
	"fintra/internal/middleware"
	"fintra/internal/push"
	"fintra/internal/services"
	"fintra/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintra/internal/docs" // Import swagger docs
)

// @title           Fintra API
// @version         1.0
// @description     Fintra is a mobile-first personal finance application with live budget alerts: transactions, budget limits, savings goals, and a notification engine that recomputes on every change.

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

// nopPusher satisfies engine.Pusher when push delivery is disabled; the
// persisted notification log remains the authoritative record.
type nopPusher struct{}

func (nopPusher) Push(string, engine.PushRequest) error { return nil }

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

	// Initialize services; mutating services publish to the change bus
	// so the live engine recomputes after every write.
	db := dbManager.DB()
	bus := live.NewBus()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db, bus)
	budgetLimitService := services.NewBudgetLimitService(db, bus)
	goalService := services.NewGoalService(db)
	notificationService := services.NewNotificationService(db)
	auditService := services.NewAuditService(db)

	// Live aggregation engine: snapshot source, persistence adapter,
	// push hub.
	hub := push.NewHub()
	var pusher engine.Pusher = hub
	if !appConfig.PushEnabled {
		log.Info("Push delivery disabled; notifications persist to the log only")
		pusher = nopPusher{}
	}

	source := live.NewSource(db, bus)
	store := live.NewStore(budgetLimitService, notificationService)
	eng := engine.New(source, store, pusher)

	engineCtx, stopEngine := context.WithCancel(context.Background())
	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		eng.Run(engineCtx)
	}()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetLimitHandler := handlers.NewBudgetLimitHandler(budgetLimitService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	summaryHandler := handlers.NewSummaryHandler(transactionService)
	wsHandler := handlers.NewWSHandler(hub)

	// Register custom binding validators before any request is bound
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
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

	// Live notification feed authenticates via token query parameter, so
	// it sits outside the header-based auth middleware.
	v1.GET("/ws", wsHandler.Connect)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget limit routes
	budgetLimits := protected.Group("/budget-limits")
	budgetLimits.POST("", budgetLimitHandler.CreateBudgetLimit)
	budgetLimits.GET("", budgetLimitHandler.GetBudgetLimits)
	budgetLimits.GET("/:id", budgetLimitHandler.GetBudgetLimit)
	budgetLimits.GET("/:id/status", budgetLimitHandler.GetBudgetLimitStatus)
	budgetLimits.PUT("/:id", budgetLimitHandler.UpdateBudgetLimit)
	budgetLimits.DELETE("/:id", budgetLimitHandler.DeleteBudgetLimit)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.POST("/:id/contributions", goalHandler.Contribute)
	goals.DELETE("/:id", goalHandler.DeleteGoal)

	// Notification routes
	notifications := protected.Group("/notifications")
	notifications.GET("", notificationHandler.GetNotifications)
	notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)
	notifications.DELETE("", notificationHandler.ClearAll)

	// Summary route
	protected.GET("/summary", summaryHandler.GetSummary)

	server := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting Fintra backend server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal, then stop the engine, close push
	// sessions, and drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	stopEngine()
	<-engineDone

	if err := hub.Close(); err != nil {
		log.Warnf("Failed to close push hub: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

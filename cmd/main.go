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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"vendor-backend/internal/clients"
	"vendor-backend/internal/config"
	"vendor-backend/internal/events"
	"vendor-backend/internal/handlers"
	localMiddleware "vendor-backend/internal/middleware"
	"vendor-backend/internal/models"
	"vendor-backend/internal/repository"
	"vendor-backend/internal/services"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
)

// @title Vendor Backend API
// @version 1.0.0
// @description Customers, orders and payments of the vendor backend, with proxies to the inventory and shipments services
// @host localhost:8000
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// Global logger
var log *logrus.Logger

func main() {
	log = logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Container health probe
	if len(os.Args) > 1 && os.Args[1] == "health" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8000"
		}
		resp, err := http.Get("http://localhost:" + port + "/health")
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := godotenv.Load(); err != nil {
		log.Warn("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := initializeDatabase(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}

	if err := runMigrations(db); err != nil {
		log.WithError(err).Fatal("Failed to run migrations")
	}

	redisClient := initializeRedis(cfg)

	// Events are optional; orders work without NATS
	var orderEvents services.OrderEventPublisher
	var eventsPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventsPublisher, err = events.NewPublisher(log, cfg.NATSURL, cfg.EventsTenantID, cfg.Currency)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize events publisher (events won't be published)")
		} else {
			orderEvents = eventsPublisher
			log.Info("NATS events publisher initialized")
		}
	}

	// Initialize dependencies
	inventoryClient := clients.NewCatalogClient("inventory-service", cfg.InventoryAPIURL, cfg.InventoryAPIKey)
	shipmentsClient := clients.NewShipmentsClient(cfg.ShipmentsAPIURL, cfg.ShipmentsAPIKey)

	customerRepo := repository.NewCustomerRepository(db)
	apiKeyService := services.NewAPIKeyService(repository.NewAPIKeyRepository(db))

	apiHandlers := &handlers.Handlers{
		Customers:        handlers.NewCustomerHandler(services.NewCustomerService(customerRepo)),
		Orders:           handlers.NewOrderHandler(services.NewOrderService(repository.NewOrderRepository(db), customerRepo, inventoryClient, orderEvents)),
		APIKeys:          handlers.NewAPIKeyHandler(apiKeyService),
		ExternalProducts: handlers.NewExternalProductHandler(inventoryClient),
		Shipments:        handlers.NewShipmentHandler(shipmentsClient),
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.WithError(err).Fatal("Failed to get underlying database")
	}
	healthHandler := handlers.NewHealthHandler(sqlDB)

	if cfg.VendorAPIKey == "" && cfg.JWTSecret == "" {
		log.Warn("Neither VENDOR_API_KEY nor JWT_SECRET is set; only issued API keys will authenticate")
	}

	router := setupRouter(cfg, redisClient, apiHandlers, healthHandler, apiKeyService)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("Vendor backend starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	if eventsPublisher != nil {
		eventsPublisher.Close()
	}
	if redisClient != nil {
		redisClient.Close()
	}
	sqlDB.Close()

	log.Info("Server shutdown complete")
}

// initializeDatabase establishes database connection
func initializeDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := config.InitDB(cfg.DSN(), cfg.Environment)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying database: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established")
	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migrations completed")
	return nil
}

// initializeRedis connects to Redis when configured; nil keeps rate limiting in memory
func initializeRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not configured, using in-memory rate limiting")
		return nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Failed to parse Redis URL, using in-memory rate limiting")
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Failed to connect to Redis, using in-memory rate limiting")
		client.Close()
		return nil
	}

	log.Info("Connected to Redis")
	return client
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(cfg *config.Config, redisClient *redis.Client, apiHandlers *handlers.Handlers, healthHandler *handlers.HealthHandler, keys localMiddleware.KeyAuthenticator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(localMiddleware.RequestID())
	router.Use(localMiddleware.RequestLogger(log))

	router.Use(gosharedmw.SecurityHeaders())

	if redisClient != nil {
		router.Use(gosharedmw.RedisRateLimitMiddlewareWithProfile(redisClient, "standard"))
	} else {
		router.Use(gosharedmw.RateLimit())
	}

	metrics := gosharedmw.InitGlobalMetrics("tesseract", "vendor_backend")
	router.Use(metrics.Middleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-API-Key", "X-Request-ID", "X-Actor-Email", "X-Actor-Name"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/metrics", gosharedmw.Handler())

	v1 := router.Group("/v1")
	v1.Use(localMiddleware.Auth(localMiddleware.AuthConfig{
		StaticKey: cfg.VendorAPIKey,
		Keys:      keys,
		JWTSecret: cfg.JWTSecret,
		Logger:    log,
	}))
	v1.Use(localMiddleware.ActorMiddleware())
	apiHandlers.Register(v1)

	// Swagger documentation (no auth required for docs)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}

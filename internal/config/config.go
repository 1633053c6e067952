package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Tesseract-Nexus/go-shared/secrets"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrMissingEnv is wrapped by every error about unset required variables
var ErrMissingEnv = errors.New("missing required environment variables")

const (
	defaultInventoryURL = "http://localhost:8000"
	defaultLogisticURL  = "http://localhost:8004"
	defaultShipmentsURL = "http://localhost:8000"
)

type Config struct {
	// Database
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Redis
	RedisURL string

	// Server
	Port        string
	Environment string
	LogLevel    string

	// Auth
	VendorAPIKey string
	JWTSecret    string

	// Sibling services
	InventoryAPIURL string
	InventoryAPIKey string
	ShipmentsAPIURL string
	ShipmentsAPIKey string

	// Events; empty NATSURL disables publishing
	NATSURL        string
	EventsTenantID string
	Currency       string
}

// MigrationConfig is what a migration command needs before any work begins
type MigrationConfig struct {
	DatabaseURL string
	CatalogURL  string
	CatalogKey  string
	Environment string
	LogLevel    string
}

func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	vendorAPIKey := secrets.GetSecretOrEnv("VENDOR_API_KEY_SECRET_NAME", "VENDOR_API_KEY", "")

	cfg := &Config{
		// Database
		DatabaseURL: databaseURL(),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      dbPort,
		DBUser:      getEnv("DB_USER", "postgres"),
		DBName:      getEnv("DB_NAME", "vendor_db"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		// Redis; empty keeps rate limiting in memory
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("PORT", "8000"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Auth
		VendorAPIKey: vendorAPIKey,
		JWTSecret:    secrets.GetSecretOrEnv("JWT_SECRET_NAME", "JWT_SECRET", ""),

		// Sibling services
		InventoryAPIURL: getEnv("INVENTORY_API_URL", defaultInventoryURL),
		InventoryAPIKey: getEnv("INVENTORY_API_KEY", vendorAPIKey),
		ShipmentsAPIURL: getEnv("SHIPMENTS_API_URL", defaultShipmentsURL),
		ShipmentsAPIKey: getEnv("SHIPMENTS_API_KEY", ""),

		// Events
		NATSURL:        getEnv("NATS_URL", ""),
		EventsTenantID: getEnv("EVENTS_TENANT_ID", "vendor"),
		Currency:       getEnv("CURRENCY", "MXN"),
	}

	// the password is only needed when no connection string is given
	if cfg.DatabaseURL == "" {
		cfg.DBPassword = secrets.GetDBPassword()
	}
	return cfg
}

// LoadProductMigration reads the settings of the products migration
func LoadProductMigration() (*MigrationConfig, error) {
	return loadMigration("LOGISTIC_API_URL", defaultLogisticURL, "LOGISTIC_API_KEY")
}

// LoadOrderItemMigration reads the settings of the order-items reconciliation
func LoadOrderItemMigration() (*MigrationConfig, error) {
	return loadMigration("INVENTORY_API_URL", defaultInventoryURL, "INVENTORY_API_KEY")
}

func loadMigration(urlVar, defaultURL, keyVar string) (*MigrationConfig, error) {
	cfg := &MigrationConfig{
		DatabaseURL: databaseURL(),
		CatalogURL:  getEnv(urlVar, defaultURL),
		CatalogKey:  getEnv(keyVar, os.Getenv("VENDOR_API_KEY")),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "VENDOR_DATABASE_URL (or DATABASE_URL)")
	}
	if cfg.CatalogKey == "" {
		missing = append(missing, keyVar+" (or VENDOR_API_KEY)")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}
	return cfg, nil
}

// DSN returns the connection string, assembling it from DB_* parts when no URL is set
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func InitDB(dsn, environment string) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func databaseURL() string {
	return getEnv("VENDOR_DATABASE_URL", os.Getenv("DATABASE_URL"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

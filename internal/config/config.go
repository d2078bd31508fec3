package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port        string
	FrontendURL string

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int

	// Authentication
	JWTSecret string
	JWTExpiry time.Duration

	// Email (optional; reports are skipped when unset)
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	AdminEmail   string

	// Storage paths
	UploadDir string
	BackupDir string

	// Jobs
	Timezone          string
	BackupRetention   int
	LowStockThreshold float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "3000"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		DBType:            getEnv("DB_TYPE", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBDatabase:        getEnv("DB_DATABASE", ""),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBConnectionLimit: getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         getEnvAsDuration("JWT_EXPIRY", 7*24*time.Hour),
		SMTPHost:          getEnv("EMAIL_HOST", ""),
		SMTPPort:          getEnv("EMAIL_PORT", "587"),
		SMTPUser:          getEnv("EMAIL_USER", ""),
		SMTPPassword:      getEnv("EMAIL_PASSWORD", ""),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads/photos"),
		BackupDir:         getEnv("BACKUP_DIR", "backups"),
		Timezone:          getEnv("TIMEZONE", "Asia/Kolkata"),
		BackupRetention:   getEnvAsInt("BACKUP_RETENTION", 7),
		LowStockThreshold: getEnvAsFloat("LOW_STOCK_THRESHOLD", 50),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required for %s", cfg.DBType)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Platform source (remote paginated API)
	PlatformAPIURL    string
	PlatformAPIKey    string
	PlatformGroupings []string

	// Export source (local JSON dumps)
	ExportFile        string
	PrimaryExportFile string

	// Side-channel artifacts; empty disables backups
	BackupDir string

	// Catalog defaults
	Currency      string
	ImportWorkers int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		KafkaBrokers:      getEnv("KAFKA_BROKERS", ""),
		APIPort:           getEnv("API_PORT", "8080"),
		APIHost:           getEnv("API_HOST", "0.0.0.0"),
		PlatformAPIURL:    getEnv("PLATFORM_API_URL", ""),
		PlatformAPIKey:    getEnv("PLATFORM_API_KEY", ""),
		PlatformGroupings: getEnvAsList("PLATFORM_GROUPINGS"),
		ExportFile:        getEnv("EXPORT_FILE", "data/products_full.json"),
		PrimaryExportFile: getEnv("PRIMARY_EXPORT_FILE", "data/products_primary.json"),
		BackupDir:         getEnv("BACKUP_DIR", ""),
		Currency:          getEnv("CURRENCY", "USD"),
		ImportWorkers:     getEnvAsInt("IMPORT_WORKERS", 4),
		Env:               getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Validate checks the credentials a pipeline run cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir  string // Base directory for all databases (always absolute)
	Port     int
	LogLevel string
	DevMode  bool

	// Result cache
	CacheTTL time.Duration

	// Export upload settings (optional; exports stay local when disabled)
	Export ExportConfig
}

// ExportConfig holds the settings for report export and S3 upload.
type ExportConfig struct {
	Dir       string // local directory for generated exports
	S3Enabled bool
	S3Bucket  string
	S3Prefix  string
	S3Region  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("NAVARCH_DATA_DIR", "")
	if dataDir == "" {
		dataDir = "./data"
	}

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	exportDir := getEnv("NAVARCH_EXPORT_DIR", "")
	if exportDir == "" {
		exportDir = filepath.Join(absDataDir, "exports")
	}
	absExportDir, err := filepath.Abs(exportDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve export directory path: %w", err)
	}

	cfg := &Config{
		DataDir:  absDataDir,
		Port:     getEnvAsInt("NAVARCH_PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		DevMode:  getEnvAsBool("DEV_MODE", false),
		CacheTTL: time.Duration(getEnvAsInt("NAVARCH_CACHE_TTL_SECONDS", 3600)) * time.Second,
		Export: ExportConfig{
			Dir:       absExportDir,
			S3Enabled: getEnvAsBool("NAVARCH_S3_EXPORT_ENABLED", false),
			S3Bucket:  getEnv("NAVARCH_S3_BUCKET", ""),
			S3Prefix:  getEnv("NAVARCH_S3_PREFIX", "navarch-exports"),
			S3Region:  getEnv("AWS_REGION", "eu-central-1"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Export.S3Enabled && c.Export.S3Bucket == "" {
		return fmt.Errorf("NAVARCH_S3_BUCKET is required when S3 export is enabled")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Game service gateway
	GatewayURL  string
	AccessToken string

	// Elasticsearch
	ElasticURL      string
	ElasticUsername string
	ElasticPassword string
	IndexPrefix     string

	// Blob store
	StorageType string // "file" or "sqlite"
	DataDir     string

	// Flow selection
	SyncDays      bool
	ContestID     string
	ContestSuffix string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		GatewayURL:      os.Getenv("GATEWAY_URL"),
		AccessToken:     os.Getenv("ACCESS_TOKEN"),
		ElasticURL:      getEnvWithDefault("ELASTIC_URL", "http://localhost:9200"),
		ElasticUsername: os.Getenv("ELASTIC_USERNAME"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),
		IndexPrefix:     getEnvWithDefault("INDEX_PREFIX", "majsoul"),
		StorageType:     getEnvWithDefault("STORAGE_TYPE", "file"),
		DataDir:         getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		SyncDays:        os.Getenv("SYNC_DAYS") != "",
		ContestID:       os.Getenv("SYNC_CONTEST"),
		ContestSuffix:   os.Getenv("CONTEST_SUFFIX"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
	}

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.GatewayURL == "" {
		return fmt.Errorf("GATEWAY_URL is required")
	}
	if c.StorageType != "file" && c.StorageType != "sqlite" {
		return fmt.Errorf("STORAGE_TYPE must be \"file\" or \"sqlite\", got %q", c.StorageType)
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

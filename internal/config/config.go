// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	NATS        NATSConfig
	Maintenance MaintenanceConfig
}

type ServerConfig struct {
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// DisableFullText turns off tsvector search, leaving the ILIKE
	// fallback. Useful against Postgres builds without the english config.
	DisableFullText bool
}

type NATSConfig struct {
	URL     string
	Enabled bool
}

type MaintenanceConfig struct {
	OverdueSweepInterval   time.Duration
	ArchiveCleanupInterval time.Duration
	ArchiveRetention       time.Duration
	ReindexInterval        time.Duration
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "sherpa"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			DisableFullText: getEnvAsBool("DB_DISABLE_FULL_TEXT", false),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", true),
		},
		Maintenance: MaintenanceConfig{
			OverdueSweepInterval:   getEnvAsDuration("OVERDUE_SWEEP_INTERVAL", time.Hour),
			ArchiveCleanupInterval: getEnvAsDuration("ARCHIVE_CLEANUP_INTERVAL", 24*time.Hour),
			ArchiveRetention:       getEnvAsDuration("ARCHIVE_RETENTION", 30*24*time.Hour),
			ReindexInterval:        getEnvAsDuration("REINDEX_INTERVAL", 6*time.Hour),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

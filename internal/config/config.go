// Package config loads application configuration from the environment
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Redis    RedisConfig
	Bestiary BestiaryConfig
	Sync     SyncConfig
}

// RedisConfig holds Redis-specific configuration. An empty URL means the
// server runs on in-memory repositories.
type RedisConfig struct {
	URL string
}

// BestiaryConfig holds monster catalog configuration
type BestiaryConfig struct {
	Timeout time.Duration
}

// SyncConfig holds HP sync bridge configuration
type SyncConfig struct {
	CampaignID        string
	SuppressionWindow time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Bestiary: BestiaryConfig{
			Timeout: getEnvAsDurationOrDefault("BESTIARY_TIMEOUT", 30*time.Second),
		},
		Sync: SyncConfig{
			CampaignID:        getEnvOrDefault("CAMPAIGN_ID", "default"),
			SuppressionWindow: getEnvAsDurationOrDefault("SYNC_SUPPRESSION_WINDOW", 2*time.Second),
		},
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

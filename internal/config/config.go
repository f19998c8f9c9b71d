package config

import (
	"os"
	"strconv"

	"goccram/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	APIPort string // gin JSON API
	UIPort  string // chi dashboard
	GinMode string
}

// DatabaseConfig holds optional result persistence settings
type DatabaseConfig struct {
	URL     string // empty disables persistence
	Enabled bool
}

// AnalysisConfig holds default resampling settings
type AnalysisConfig struct {
	Resamples       int
	ConfidenceLevel float64
	Workers         int // 0 = all cores
	Seed            int64
	Parallel        bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			APIPort: getEnvOrDefault("API_PORT", "8080"),
			UIPort:  getEnvOrDefault("UI_PORT", "8081"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Analysis: AnalysisConfig{
			Resamples:       getEnvIntOrDefault("CCRAM_RESAMPLES", 9999),
			ConfidenceLevel: getEnvFloatOrDefault("CCRAM_CONFIDENCE", 0.95),
			Workers:         getEnvIntOrDefault("CCRAM_WORKERS", 0),
			Seed:            int64(getEnvIntOrDefault("CCRAM_SEED", 42)),
			Parallel:        getEnvOrDefault("CCRAM_PARALLEL", "true") == "true",
		},
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	if cfg.Analysis.Resamples < 1 {
		return nil, errors.ConfigInvalid("CCRAM_RESAMPLES must be positive")
	}
	if cfg.Analysis.ConfidenceLevel <= 0 || cfg.Analysis.ConfidenceLevel >= 1 {
		return nil, errors.ConfigInvalid("CCRAM_CONFIDENCE must be in (0,1)")
	}
	return cfg, nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

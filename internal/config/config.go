package config

import (
	"os"
	"strconv"

	"relimeter/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Ops      OpsConfig
	Data     DataConfig
	Worker   WorkerConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OpsConfig holds the admin/ops endpoint settings (health, pprof)
type OpsConfig struct {
	Port         string
	PprofEnabled bool
}

// DataConfig holds reference-data settings
type DataConfig struct {
	JournalSeedFile string
}

// WorkerConfig holds snapshot worker settings
type WorkerConfig struct {
	Concurrency int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Ops: OpsConfig{
			Port:         getEnvOrDefault("OPS_PORT", "8081"),
			PprofEnabled: getEnvBool("PPROF_ENABLED", false),
		},
		Data: DataConfig{
			JournalSeedFile: getEnvOrDefault("JOURNAL_SEED_FILE", "data/journals.yml"),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 8),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validate(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Worker.Concurrency < 1 {
		return errors.ConfigInvalid("WORKER_CONCURRENCY must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

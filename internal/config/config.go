// Package config loads runtime configuration from a .env file and the
// environment. Environment variables win over .env values.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultBatchSize bounds a batch when BATCH_SIZE is unset.
const DefaultBatchSize = 10

// Config holds everything the binaries need.
type Config struct {
	DBPath    string
	BatchSize int
	Port      string
}

// Load reads .env (if present) and the environment. A malformed
// BATCH_SIZE is fatal here, before any store read happens.
func Load() (*Config, error) {
	// Missing .env is fine; env vars alone are a complete configuration.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:    getEnv("LADDER_DB_PATH", "./data/ladder.db"),
		BatchSize: DefaultBatchSize,
		Port:      getEnv("PORT", "8080"),
	}

	if raw := os.Getenv("BATCH_SIZE"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("config: invalid BATCH_SIZE %q: %w", raw, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("config: BATCH_SIZE must be >= 1, got %d", n)
		}
		cfg.BatchSize = n
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

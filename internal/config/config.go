package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Databases
	StoreDBPath      string
	CheckpointDBPath string

	// Agent
	ModelName string
	UserName  string
	Timezone  string

	// Logging
	LogLevel string

	// Thread-history cache
	HistoryCacheSize int
	HistoryCacheTTL  time.Duration
}

func Load() *Config {
	return &Config{
		StoreDBPath:      getEnv("STORE_DB_PATH", "./data/grana.db"),
		CheckpointDBPath: getEnv("CHECKPOINT_DB_PATH", "./data/checkpoints.db"),

		ModelName: getEnv("MODEL_NAME", "gemini-2.0-flash"),
		UserName:  getEnv("USER_NAME", "usuário"),
		Timezone:  getEnv("TZ", "America/Sao_Paulo"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		HistoryCacheSize: getEnvInt("HISTORY_CACHE_SIZE", 32),
		HistoryCacheTTL:  getEnvDuration("HISTORY_CACHE_TTL", 10*time.Minute),
	}
}

// Validate validates the configuration and returns an error if invalid.
// All problems are reported at once.
func (c *Config) Validate() error {
	var errors []string

	if c.StoreDBPath == "" {
		errors = append(errors, "store database path cannot be empty")
	}
	if c.CheckpointDBPath == "" {
		errors = append(errors, "checkpoint database path cannot be empty")
	}
	if c.StoreDBPath != "" && c.StoreDBPath == c.CheckpointDBPath {
		errors = append(errors, "store and checkpoint databases must be separate files")
	}
	for _, path := range []string{c.StoreDBPath, c.CheckpointDBPath} {
		if path == "" {
			continue
		}
		dir := filepath.Dir(path)
		if dir == "." || dir == "" {
			continue
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	if c.ModelName == "" {
		errors = append(errors, "model name cannot be empty")
	}
	if c.UserName == "" {
		errors = append(errors, "user name cannot be empty")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	if c.HistoryCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid history cache size %d: must be at least 1", c.HistoryCacheSize))
	} else if c.HistoryCacheSize > 10000 {
		errors = append(errors, fmt.Sprintf("invalid history cache size %d: must be at most 10000", c.HistoryCacheSize))
	}

	if c.HistoryCacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid history cache TTL %v: must be at least 1 second", c.HistoryCacheTTL))
	} else if c.HistoryCacheTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid history cache TTL %v: must be at most 24 hours", c.HistoryCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location resolves the configured timezone. Call Validate first.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// UserID is the storage identity derived from the configured user name.
func (c *Config) UserID() string {
	return strings.ToLower(strings.TrimSpace(c.UserName))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

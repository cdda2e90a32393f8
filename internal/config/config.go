// ABOUTME: Centralized configuration for the vault CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/harper/oogvault/internal/core"
	"github.com/harper/oogvault/internal/logging"
	"github.com/harper/oogvault/internal/storage/sqlite"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the vault
type Config struct {
	// Storage settings
	DBPath       string
	SettingsPath string

	// Logging settings
	LogLevel  string
	LogFormat string

	// Retrieval settings
	ConversationThreshold float64
	SimilarThreshold      float64
	NuggetThreshold       float64

	// Ingestion settings
	SaveRetries int
	RetryDelay  time.Duration
}

// Load reads a .env file if present, then environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:                getEnv("OOGVAULT_DB_PATH", sqlite.DefaultDBPath()),
		SettingsPath:          getEnv("OOGVAULT_SETTINGS_PATH", DefaultSettingsPath()),
		LogLevel:              getEnv("OOGVAULT_LOG_LEVEL", "info"),
		LogFormat:             getEnv("OOGVAULT_LOG_FORMAT", logging.FormatConsole),
		ConversationThreshold: getEnvFloat("OOGVAULT_CONVERSATION_THRESHOLD", core.DefaultConversationThreshold),
		SimilarThreshold:      getEnvFloat("OOGVAULT_SIMILAR_THRESHOLD", core.DefaultSimilarThreshold),
		NuggetThreshold:       getEnvFloat("OOGVAULT_NUGGET_THRESHOLD", core.DefaultNuggetThreshold),
		SaveRetries:           getEnvInt("OOGVAULT_SAVE_RETRIES", 2),
		RetryDelay:            getEnvDuration("OOGVAULT_RETRY_DELAY", 200*time.Millisecond),
	}

	return cfg, cfg.Validate()
}

// DefaultSettingsPath returns the settings file location following the XDG base directory layout
func DefaultSettingsPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "oogvault", "settings.yaml")
}

func (c *Config) Validate() error {
	thresholds := map[string]float64{
		"OOGVAULT_CONVERSATION_THRESHOLD": c.ConversationThreshold,
		"OOGVAULT_SIMILAR_THRESHOLD":      c.SimilarThreshold,
		"OOGVAULT_NUGGET_THRESHOLD":       c.NuggetThreshold,
	}
	for name, v := range thresholds {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be 0-1, got %f", name, v)
		}
	}
	if c.SaveRetries < 0 || c.SaveRetries > 10 {
		return fmt.Errorf("OOGVAULT_SAVE_RETRIES must be 0-10, got %d", c.SaveRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("OOGVAULT_RETRY_DELAY must not be negative, got %v", c.RetryDelay)
	}
	if c.LogFormat != logging.FormatConsole && c.LogFormat != logging.FormatJSON {
		return fmt.Errorf("OOGVAULT_LOG_FORMAT must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// Thresholds returns the retrieval cut-offs
func (c *Config) Thresholds() core.Thresholds {
	return core.Thresholds{
		Conversation: c.ConversationThreshold,
		Similar:      c.SimilarThreshold,
		Nugget:       c.NuggetThreshold,
	}
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

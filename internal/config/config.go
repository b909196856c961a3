package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Telegram
	BotToken string // empty disables the bot subsystem
	AppURL   string // public base URL for webhook registration (optional)

	// Admin API
	AdminUsername string
	AdminPassword string

	// Cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// View batching
	FlushInterval time.Duration

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/streamhub.db

	// Logging
	LogLevel string
}

// BotEnabled reports whether the Telegram subsystem is configured.
func (c *Config) BotEnabled() bool {
	return c.BotToken != ""
}

// AdminEnabled reports whether the admin API credentials are configured.
func (c *Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CACHE_TTL_SECONDS", 60)
	viper.SetDefault("CACHE_MAX_ENTRIES", 256)
	viper.SetDefault("FLUSH_INTERVAL_SECONDS", 30)

	// NOW read CONFIG_DIR from viper (which has loaded .env file)
	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "streamhub")
	} else {
		// Convert relative path to absolute path
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		// Telegram
		BotToken: viper.GetString("BOT_TOKEN"),
		AppURL:   viper.GetString("APP_URL"),

		// Admin API
		AdminUsername: viper.GetString("ADMIN_USERNAME"),
		AdminPassword: viper.GetString("ADMIN_PASSWORD"),

		// Cache
		CacheTTL:        time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		CacheMaxEntries: viper.GetInt("CACHE_MAX_ENTRIES"),

		// View batching
		FlushInterval: time.Duration(viper.GetInt("FLUSH_INTERVAL_SECONDS")) * time.Second,

		// Server
		ServerPort: viper.GetString("SERVER_PORT"),

		// Paths
		DatabaseFile: filepath.Join(configDir, "streamhub.db"),

		// Logging
		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	// Misconfigured durations/counts fall back to defaults rather than failing startup
	if config.CacheTTL <= 0 {
		config.CacheTTL = 60 * time.Second
	}
	if config.CacheMaxEntries <= 0 {
		config.CacheMaxEntries = 256
	}
	if config.FlushInterval <= 0 {
		config.FlushInterval = 30 * time.Second
	}

	return config, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration for the commit store
	Database DatabaseConfig

	// GitHub commit source and webhook configuration
	GitHub GitHubConfig

	// Gitea webhook configuration
	Gitea GiteaConfig

	// Changelog pipeline limits
	Changelog ChangelogConfig

	// WhatsApp delivery configuration
	WhatsApp WhatsAppConfig

	// Logging configuration
	Log LogConfig

	// Security configuration
	Security SecurityConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Driver string
	DSN    string
}

// GitHubConfig holds the GitHub REST API and webhook settings
type GitHubConfig struct {
	APIURL        string
	Token         string // optional, raises the API rate limit
	PerPage       int
	Timeout       time.Duration
	WebhookSecret string
}

// GiteaConfig holds Gitea webhook configuration
type GiteaConfig struct {
	WebhookSecret string
}

// ChangelogConfig holds limits applied around the changelog pipeline
type ChangelogConfig struct {
	MaxCommits    int // commits fed to a single changelog
	MaxHighlights int // quoted descriptions per group summary
	ListLimit     int // stored commits returned by the commits endpoint
}

// WhatsAppConfig holds WhatsApp delivery configuration
type WhatsAppConfig struct {
	Enabled    bool
	DSN        string // session store, kept apart from the commit store
	LogLevel   string
	DeviceName string // Custom device name that appears in WhatsApp linked devices
	Recipient  string // JID that receives published changelogs
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "json" or "text"
}

// SecurityConfig holds security-specific configuration
type SecurityConfig struct {
	// API Keys - sent by clients for authentication. Empty disables the check.
	APIKeys            []string
	RateLimitPerMinute int
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	// Try to load .env file (ignore errors - it's optional)
	_ = godotenv.Load(".env")

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", ""),
			Port:            getEnvAsInt("SERVER_PORT", 4000),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"),
			DSN:    getEnv("DB_DSN", "file:changelog.db?_foreign_keys=on"),
		},
		GitHub: GitHubConfig{
			APIURL:        strings.TrimRight(getEnv("GITHUB_API_URL", "https://api.github.com"), "/"),
			Token:         getEnv("GITHUB_TOKEN", ""),
			PerPage:       getEnvAsInt("GITHUB_PER_PAGE", 50),
			Timeout:       getEnvAsDuration("GITHUB_TIMEOUT", 15*time.Second),
			WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", ""),
		},
		Gitea: GiteaConfig{
			WebhookSecret: getEnv("GITEA_WEBHOOK_SECRET", ""),
		},
		Changelog: ChangelogConfig{
			MaxCommits:    getEnvAsInt("CHANGELOG_MAX_COMMITS", 30),
			MaxHighlights: getEnvAsInt("CHANGELOG_MAX_HIGHLIGHTS", 3),
			ListLimit:     getEnvAsInt("COMMITS_LIST_LIMIT", 50),
		},
		WhatsApp: WhatsAppConfig{
			Enabled:    getEnvAsBool("WHATSAPP_ENABLED", false),
			DSN:        getEnv("WHATSAPP_DB_DSN", "file:whatsapp.db?_foreign_keys=on"),
			LogLevel:   getEnv("WHATSAPP_LOG_LEVEL", "INFO"),
			DeviceName: getEnv("WHATSAPP_DEVICE_NAME", "macOS"),
			Recipient:  getEnv("WHATSAPP_RECIPIENT", ""),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		Security: SecurityConfig{
			APIKeys:            getEnvAsSlice("API_KEYS", []string{}),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required")
	}

	if c.GitHub.APIURL == "" {
		return fmt.Errorf("GitHub API URL is required")
	}

	if c.GitHub.PerPage < 1 || c.GitHub.PerPage > 100 {
		return fmt.Errorf("invalid GitHub page size: %d (must be between 1 and 100)", c.GitHub.PerPage)
	}

	if c.Changelog.MaxCommits < 1 {
		return fmt.Errorf("invalid changelog commit limit: %d", c.Changelog.MaxCommits)
	}

	if c.Changelog.MaxHighlights < 1 {
		return fmt.Errorf("invalid changelog highlight limit: %d", c.Changelog.MaxHighlights)
	}

	if c.Changelog.ListLimit < 1 || c.Changelog.ListLimit > 1000 {
		return fmt.Errorf("invalid commit list limit: %d", c.Changelog.ListLimit)
	}

	if c.Security.RateLimitPerMinute < 1 {
		return fmt.Errorf("invalid rate limit: %d", c.Security.RateLimitPerMinute)
	}

	// Check for default/insecure API keys
	for _, key := range c.Security.APIKeys {
		if key == "default-api-key" || key == "api-key-123" || len(key) < 8 {
			return fmt.Errorf("insecure or default API key detected: '%s'. Please set secure API keys in environment variables", key)
		}
	}

	if c.WhatsApp.Enabled {
		if c.WhatsApp.DSN == "" {
			return fmt.Errorf("WhatsApp session DSN is required when WhatsApp is enabled")
		}
		if c.WhatsApp.Recipient == "" {
			return fmt.Errorf("WhatsApp recipient is required when WhatsApp is enabled")
		}
	}

	return nil
}

// Address returns the server address in the format host:port
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions to get environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	values := make([]string, 0)
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}

	return values
}

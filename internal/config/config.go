package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Record sources
	Data DataConfig

	// Database configuration; when set it replaces the JSON files as source
	Database DatabaseConfig

	// Summary cache
	Cache CacheConfig

	// Scheduled snapshot reloads
	Reload ReloadConfig

	// Admin token configuration
	Admin AdminConfig

	// Language model for the assistant
	LLM LLMConfig

	// CORS configuration
	CORS CORSConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// WebSocket configuration
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DataConfig points at the robot exports
type DataConfig struct {
	EntryPath     string
	ExitPath      string
	ProfilesPath  string
	Watch         bool // reload a variant when its file changes
	WatchDebounce time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxConns        int
	MinConns        int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// CacheConfig holds summary cache configuration
type CacheConfig struct {
	RedisURL string
	TTL      time.Duration
}

// ReloadConfig holds the reload schedule (standard 5-field cron, or @every)
type ReloadConfig struct {
	Schedule string
}

// AdminConfig holds admin token configuration
type AdminConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// LLMConfig holds language model configuration
type LLMConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	ChatRPS           float64 // Stricter limit for the assistant
	ChatBurst         int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads the configuration from the process environment without
// validating it.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Data: DataConfig{
			EntryPath:     getEnvOrDefault("DATA_ENTRY_PATH", "data/data.json"),
			ExitPath:      getEnvOrDefault("DATA_EXIT_PATH", "data/datacikis.json"),
			ProfilesPath:  os.Getenv("DASHBOARD_PROFILES"),
			Watch:         getBoolOrDefault("DATA_WATCH", false),
			WatchDebounce: getDurationOrDefault("DATA_WATCH_DEBOUNCE", 2*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxConns:        getIntOrDefault("DB_MAX_CONNS", 10),
			MinConns:        getIntOrDefault("DB_MIN_CONNS", 1),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
		},
		Cache: CacheConfig{
			RedisURL: os.Getenv("REDIS_URL"),
			TTL:      getDurationOrDefault("CACHE_TTL", 10*time.Minute),
		},
		Reload: ReloadConfig{
			Schedule: os.Getenv("RELOAD_SCHEDULE"),
		},
		Admin: AdminConfig{
			JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
			TokenTTL:  getDurationOrDefault("ADMIN_TOKEN_TTL", 1*time.Hour),
		},
		LLM: LLMConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     getEnvOrDefault("LLM_MODEL", "claude-sonnet-4-5"),
			MaxTokens: getIntOrDefault("LLM_MAX_TOKENS", 800),
			Timeout:   getDurationOrDefault("LLM_TIMEOUT", 30*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         getIntOrDefault("CORS_MAX_AGE", 300),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 20),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 40),
			ChatRPS:           getFloatOrDefault("RATE_LIMIT_CHAT_RPS", 0.5),
			ChatBurst:         getIntOrDefault("RATE_LIMIT_CHAT_BURST", 5),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "rpa-dashboard"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	if c.Database.URL == "" && (c.Data.EntryPath == "" || c.Data.ExitPath == "") {
		errs = append(errs, "DATA_ENTRY_PATH and DATA_EXIT_PATH are required without DATABASE_URL")
	}

	if c.Data.Watch && c.Data.WatchDebounce <= 0 {
		errs = append(errs, "DATA_WATCH_DEBOUNCE must be positive when DATA_WATCH is enabled")
	}

	if c.Cache.RedisURL != "" && c.Cache.TTL <= 0 {
		errs = append(errs, "CACHE_TTL must be positive when REDIS_URL is set")
	}

	if c.LLM.APIKey != "" && c.LLM.MaxTokens <= 0 {
		errs = append(errs, "LLM_MAX_TOKENS must be positive")
	}

	// Security validations
	if c.App.Environment == "production" {
		if c.Admin.JWTSecret != "" && len(c.Admin.JWTSecret) < 32 {
			errs = append(errs, "ADMIN_JWT_SECRET must be at least 32 characters in production")
		}

		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, "DB_MIN_CONNS cannot be greater than DB_MAX_CONNS")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// AdminEnabled reports whether the admin endpoints are served.
func (c *Config) AdminEnabled() bool {
	return c.Admin.JWTSecret != ""
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Server: %s, DB: %s, Redis: %s, Admin: %v, LLM: %v, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		redactURL(c.Database.URL),
		redactURL(c.Cache.RedisURL),
		c.AdminEnabled(),
		c.LLM.APIKey != "",
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

// redactURL redacts credentials from a connection URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.LastIndex(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}

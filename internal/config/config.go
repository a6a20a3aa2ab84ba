package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Storage   string
	Database  DatabaseConfig
	Server    ServerConfig
	Security  SecurityConfig
	CORS      CORSConfig
	Logging   LoggingConfig
	Integrity IntegrityConfig
	// SeedDemoData loads a small sample catalog on startup.
	SeedDemoData bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL      string // Full PostgreSQL URL
	Driver   string // pgx or postgres (lib/pq)
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds token signing settings
type SecurityConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// IntegrityConfig tunes the deletion cascade.
type IntegrityConfig struct {
	MaxAttempts      int
	ReconcileOnStart bool
}

// Load reads config/local.env and .env when present, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load("config/local.env")
	_ = godotenv.Load()

	cfg := &Config{}
	var problems []string

	cfg.Storage = strings.ToLower(getEnvOrDefault("STORAGE", StorageMemory))

	if err := cfg.loadDatabase(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := cfg.loadServer(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := cfg.loadSecurity(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := cfg.loadIntegrity(); err != nil {
		problems = append(problems, err.Error())
	}
	cfg.loadCORS()
	cfg.loadLogging()

	seed, err := getEnvBool("SEED_DEMO_DATA", false)
	if err != nil {
		problems = append(problems, err.Error())
	}
	cfg.SeedDemoData = seed

	if len(problems) > 0 {
		return nil, fmt.Errorf("load config:\n  - %s", strings.Join(problems, "\n  - "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadDatabase() error {
	c.Database.Driver = strings.ToLower(getEnvOrDefault("DB_DRIVER", "pgx"))
	c.Database.URL = os.Getenv("DATABASE_URL")
	if c.Database.URL != "" {
		return nil
	}

	c.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	c.Database.User = os.Getenv("DB_USER")
	c.Database.Password = os.Getenv("DB_PASSWORD")
	c.Database.Name = os.Getenv("DB_NAME")
	c.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")

	port, err := strconv.Atoi(getEnvOrDefault("DB_PORT", "5432"))
	if err != nil {
		return fmt.Errorf("invalid DB_PORT: %w", err)
	}
	c.Database.Port = port

	if c.Database.User != "" && c.Database.Name != "" {
		c.Database.URL = fmt.Sprintf(
			"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
			c.Database.User,
			c.Database.Password,
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
			c.Database.SSLMode,
		)
	}
	return nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "4000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadSecurity() error {
	c.Security.AccessSecret = os.Getenv("JWT_SECRET_KEY")
	c.Security.RefreshSecret = os.Getenv("JWT_SECRET_REFRESH_KEY")

	access, err := time.ParseDuration(getEnvOrDefault("TOKEN_EXPIRE_TIME", "1h"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_EXPIRE_TIME: %w", err)
	}
	refresh, err := time.ParseDuration(getEnvOrDefault("TOKEN_REFRESH_EXPIRE_TIME", "24h"))
	if err != nil {
		return fmt.Errorf("invalid TOKEN_REFRESH_EXPIRE_TIME: %w", err)
	}
	c.Security.AccessTTL = access
	c.Security.RefreshTTL = refresh
	return nil
}

func (c *Config) loadIntegrity() error {
	attempts, err := strconv.Atoi(getEnvOrDefault("CASCADE_MAX_ATTEMPTS", "3"))
	if err != nil {
		return fmt.Errorf("invalid CASCADE_MAX_ATTEMPTS: %w", err)
	}
	reconcile, err := getEnvBool("RECONCILE_ON_START", true)
	if err != nil {
		return err
	}
	c.Integrity.MaxAttempts = attempts
	c.Integrity.ReconcileOnStart = reconcile
	return nil
}

func (c *Config) loadCORS() {
	raw := getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			c.CORS.AllowedOrigins = append(c.CORS.AllowedOrigins, trimmed)
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	c.Logging.Format = strings.ToLower(getEnvOrDefault("LOG_FORMAT", "json"))
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errors []string

	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.URL == "" {
			errors = append(errors, "DATABASE_URL is required (or DB_HOST, DB_USER, DB_NAME) when STORAGE=postgres")
		}
		if c.Database.Driver != "pgx" && c.Database.Driver != "postgres" {
			errors = append(errors, "DB_DRIVER must be one of: pgx, postgres")
		}
	default:
		errors = append(errors, "STORAGE must be one of: memory, postgres")
	}

	if len(c.Security.AccessSecret) < 16 {
		errors = append(errors, "JWT_SECRET_KEY must be at least 16 characters")
	}
	if len(c.Security.RefreshSecret) < 16 {
		errors = append(errors, "JWT_SECRET_REFRESH_KEY must be at least 16 characters")
	}
	if c.Security.AccessTTL <= 0 || c.Security.RefreshTTL <= 0 {
		errors = append(errors, "token expiry times must be positive")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errors = append(errors, "PORT must be between 1 and 65535")
	}

	if c.Integrity.MaxAttempts < 1 {
		errors = append(errors, "CASCADE_MAX_ATTEMPTS must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errors = append(errors, "LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errors = append(errors, "LOG_FORMAT must be one of: json, text")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

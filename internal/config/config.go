package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Database   DatabaseConfig
	Server     ServerConfig
	App        AppConfig
	Invite     InviteConfig
	RateLimit  RateLimitConfig
	Monitoring MonitoringConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	// Path is only used by the sqlite driver
	Path string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port           string
	FrontendURL    string
	AllowedOrigins []string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Environment string
	JWTSecret   string
}

// InviteConfig controls how invitation links are minted
type InviteConfig struct {
	TTL               time.Duration
	DefaultMaxUses    int
	ReconcileInterval time.Duration // 0 disables the reconciler job
}

// RateLimitConfig limits public token and code lookups per client
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
	CacheSize         int
}

// MonitoringConfig holds logging and error tracking settings
type MonitoringConfig struct {
	LogLevel         string
	ErrorTrackingDSN string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "trip_planner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "trip_planner.db"),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			FrontendURL: strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5173", // Vite dev server
				"http://127.0.0.1:5173",
			}),
		},
		App: AppConfig{
			Environment: getEnv("ENVIRONMENT", "dev"),
			JWTSecret:   getEnv("JWT_SECRET", ""),
		},
		Invite: InviteConfig{
			TTL:               getEnvDuration("INVITE_TTL", 30*24*time.Hour),
			DefaultMaxUses:    getEnvInt("INVITE_DEFAULT_MAX_USES", 10),
			ReconcileInterval: getEnvDuration("INVITE_RECONCILE_INTERVAL", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 10),
			CacheSize:         getEnvInt("RATE_LIMIT_CACHE_SIZE", 10000),
		},
		Monitoring: MonitoringConfig{
			LogLevel:         getEnv("LOG_LEVEL", "info"),
			ErrorTrackingDSN: getEnv("ERROR_TRACKING_DSN", ""),
		},
	}

	if config.Server.FrontendURL != "" {
		config.Server.AllowedOrigins = appendUnique(config.Server.AllowedOrigins, config.Server.FrontendURL)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.App.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.Database.Driver)
	}

	if c.Invite.TTL <= 0 {
		return fmt.Errorf("INVITE_TTL must be positive")
	}
	if c.Invite.DefaultMaxUses < 1 {
		return fmt.Errorf("INVITE_DEFAULT_MAX_USES must be at least 1")
	}

	return nil
}

// IsDev reports whether the server runs in the dev environment
func (c *Config) IsDev() bool {
	return c.App.Environment == "dev"
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.Path + "?_busy_timeout=5000&_foreign_keys=on"
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetMigrationURL returns the postgres URL form used by lib/pq and golang-migrate
func (c *Config) GetMigrationURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Session   SessionConfig
	Admin     AdminConfig
	Billing   BillingConfig
	Log       LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds connection settings. Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	BaseURL    string
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

// AdminConfig seeds an administrator account on startup when both fields are set.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// BillingConfig holds the checkout provider credentials and price overrides.
// Prices maps "plan:locale" to a provider price id.
type BillingConfig struct {
	SecretKey string
	APIBase   string
	Prices    map[string]string
}

// LogConfig selects the zerolog level and output format ("json" or "console").
type LogConfig struct {
	Level  string
	Format string
}

// RateLimitConfig limits anonymous write endpoints per client IP.
type RateLimitConfig struct {
	PerMinute int
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "growth"),
			Password:   getEnv("DB_PASSWORD", "growth123"),
			DBName:     getEnv("DB_NAME", "growth"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "growth.db"),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", false),
			BaseURL:    strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:8080"), "/"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "devsessionsecret"),
			TTL:    getEnvDuration("SESSION_TTL", 30*24*time.Hour),
			Secure: getEnvBool("SESSION_SECURE", false),
		},
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
			Name:     getEnv("ADMIN_NAME", "Administrador"),
		},
		Billing: BillingConfig{
			SecretKey: getEnv("STRIPE_SECRET_KEY", ""),
			APIBase:   getEnv("STRIPE_API_BASE", "https://api.stripe.com"),
			Prices:    pricesFromEnv(os.Environ()),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		RateLimit: RateLimitConfig{
			PerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
		},
	}
}

// pricesFromEnv collects STRIPE_PRICE_<PLAN>_<LOCALE> variables into "plan:locale" keys.
func pricesFromEnv(environ []string) map[string]string {
	const prefix = "STRIPE_PRICE_"
	prices := make(map[string]string)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(key, prefix) {
			continue
		}
		rest := strings.ToLower(strings.TrimPrefix(key, prefix))
		i := strings.LastIndex(rest, "_")
		if i <= 0 || i == len(rest)-1 {
			continue
		}
		prices[rest[:i]+":"+rest[i+1:]] = value
	}
	return prices
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses a Go duration ("720h") or falls back to the default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

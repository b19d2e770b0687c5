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
	Server   ServerConfig
	Database DatabaseConfig
	Backend  BackendConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds the connection settings of the local store.
type DatabaseConfig struct {
	Driver     string // sqlite or postgres
	SQLitePath string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	Debug      bool
}

// Backend kinds.
const (
	BackendStore = "store"
	BackendApper = "apper"
)

// BackendConfig selects where records live.
type BackendConfig struct {
	Kind      string
	BaseURL   string
	ProjectID string
	PublicKey string
	Timeout   time.Duration
	// Expose mounts the record API of the local store under /backend.
	Expose bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	Seed          bool
	SessionSecret string
	TokenTTL      time.Duration
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return d.SQLitePath
	}
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

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Backend.Kind {
	case BackendStore:
	case BackendApper:
		if c.Backend.BaseURL == "" || c.Backend.ProjectID == "" || c.Backend.PublicKey == "" {
			return fmt.Errorf("BACKEND=apper requires APPER_BASE_URL, APPER_PROJECT_ID and APPER_PUBLIC_KEY")
		}
	default:
		return fmt.Errorf("unsupported BACKEND %q", c.Backend.Kind)
	}
	if c.Backend.Expose && c.Backend.PublicKey == "" {
		return fmt.Errorf("BACKEND_EXPOSE requires APPER_PUBLIC_KEY")
	}
	if !c.App.Dev && c.App.SessionSecret == defaultSecret {
		return fmt.Errorf("SESSION_SECRET must be set outside dev mode")
	}
	return nil
}

const defaultSecret = "devsessionsecret"

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
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
			SQLitePath: getEnv("SQLITE_PATH", "crm.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "crm"),
			Password:   getEnv("DB_PASSWORD", "crm123"),
			DBName:     getEnv("DB_NAME", "crm"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		Backend: BackendConfig{
			Kind:      strings.ToLower(getEnv("BACKEND", BackendStore)),
			BaseURL:   getEnv("APPER_BASE_URL", ""),
			ProjectID: getEnv("APPER_PROJECT_ID", ""),
			PublicKey: getEnv("APPER_PUBLIC_KEY", ""),
			Timeout:   time.Duration(getEnvInt("APPER_TIMEOUT", 30)) * time.Second,
			Expose:    getEnvBool("BACKEND_EXPOSE", false),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Migrations:    getEnvBool("MIGRATIONS", false),
			Seed:          getEnvBool("DB_SEED", false),
			SessionSecret: getEnv("SESSION_SECRET", defaultSecret),
			TokenTTL:      time.Duration(getEnvInt("TOKEN_TTL_HOURS", 24*14)) * time.Hour,
		},
	}
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

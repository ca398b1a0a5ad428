package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the persistence layer.
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Scheduler SchedulerConfig
	AI        AIConfig
	Office    OfficeConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver  string
	DataDir string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// SchedulerConfig controls the reminder due-check loop.
type SchedulerConfig struct {
	Interval time.Duration
	Timezone string
}

// AIConfig holds defaults for the generative-AI collaborator.
// API keys are not configured here; they live in the settings store.
type AIConfig struct {
	Timeout    time.Duration
	TextModel  string
	ImageModel string
}

// OfficeConfig describes the statically assigned operator.
type OfficeConfig struct {
	ActiveUserID string
}

// Load reads configuration from an optional .env file and environment variables.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load(envFiles...)

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORAGE_DRIVER", DriverFile)
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "estatedesk")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 1)
	v.SetDefault("DB_POOL_MAX", 4)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "estatedesk:")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("REMINDER_INTERVAL", "30s")
	v.SetDefault("TIMEZONE", "Asia/Tehran")
	v.SetDefault("AI_TIMEOUT", "60s")
	v.SetDefault("AI_TEXT_MODEL", "gemini-2.5-flash")
	v.SetDefault("AI_IMAGE_MODEL", "gemini-2.5-flash-image")
	v.SetDefault("ACTIVE_USER_ID", "admin-1")

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Storage: StorageConfig{
			Driver:  strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
			DataDir: v.GetString("DATA_DIR"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Scheduler: SchedulerConfig{
			Interval: v.GetDuration("REMINDER_INTERVAL"),
			Timezone: v.GetString("TIMEZONE"),
		},
		AI: AIConfig{
			Timeout:    v.GetDuration("AI_TIMEOUT"),
			TextModel:  v.GetString("AI_TEXT_MODEL"),
			ImageModel: v.GetString("AI_IMAGE_MODEL"),
		},
		Office: OfficeConfig{
			ActiveUserID: v.GetString("ACTIVE_USER_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required for the file driver")
		}
	case DriverPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be one of file, postgres, redis, memory (got %q)", c.Storage.Driver)
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("REMINDER_INTERVAL must be positive")
	}
	if c.Scheduler.Timezone == "" {
		return fmt.Errorf("TIMEZONE is required")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is invalid: %w", err)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT must be positive")
	}
	if c.Office.ActiveUserID == "" {
		return fmt.Errorf("ACTIVE_USER_ID is required")
	}

	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (s SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config is the full configuration surface of the tracker.
type Config struct {
	Store    StoreConfig
	Timezone string
	// RolloverCron is the cron spec of the day-boundary job that refreshes the REPL.
	RolloverCron string
	LogLevel     string
	LogFile      string
}

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Backend       string
	DataDir       string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	MongoURI      string
	MongoDBName   string
}

// Load reads environment variables (optionally from envFile) into a Config
// and validates it. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be an integer: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv("STORE_BACKEND", BackendFile)),
			DataDir:       getEnv("DATA_DIR", "data"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
			RedisPrefix:   getEnv("REDIS_PREFIX", "refill-ledger:"),
			MongoURI:      os.Getenv("MONGODB_URI"),
			MongoDBName:   getEnv("MONGODB_DB_NAME", "refill_ledger"),
		},
		Timezone:     getEnv("TIMEZONE", "Local"),
		RolloverCron: getEnv("ROLLOVER_CRON", "0 0 * * *"),
		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		LogFile:      os.Getenv("LOG_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	switch c.Store.Backend {
	case BackendFile:
		if c.Store.DataDir == "" {
			return errors.New("DATA_DIR must be provided for the file backend")
		}
	case BackendMemory:
	case BackendPostgres:
		if c.Store.DatabaseURL == "" {
			return errors.New("DATABASE_URL must be provided for the postgres backend")
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("REDIS_ADDR must be provided for the redis backend")
		}
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone. "Local" (or empty) is the machine's zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

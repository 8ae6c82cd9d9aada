package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendBaaS   = "baas"
	BackendMemory = "memory"

	StateDriverSQLite = "sqlite"
	StateDriverRedis  = "redis"
)

type Config struct {
	Backend     string // Optional: remote backend (baas, memory) (default: baas)
	BaaSURL     string // Required for baas: hosted backend base URL
	BaaSAnonKey string // Required for baas: hosted backend public API key

	StateDriver    string        // Optional: local state store (sqlite, redis) (default: sqlite)
	DatabaseFile   string        // Optional: sqlite file (default: ./taskhub.db)
	RedisAddr      string        // Optional: redis address (default: localhost:6379)
	RedisPassword  string        // Optional: redis password
	RedisDB        int           // Optional: redis database number (default: 0)
	RedisStateTTL  time.Duration // Optional: expiry of redis held state (default: 30 days)
	MasterKey      string        // Optional: key material for sealing persisted tokens
	MasterKeyPath  string        // Optional: file holding the master key, wins over MasterKey
	CacheStale     time.Duration // Optional: age after which the task cache is refetched (default: 5m)
	RefreshEvery   time.Duration // Optional: background refresher tick (default: 1m)
	RemoteTimeout  time.Duration // Optional: per remote call timeout (default: 10s)
	LoadingTimeout time.Duration // Optional: how long requests wait for session restore (default: 8s)
	MaxRetries     int           // Optional: retries of fetches and profile writes (default: 3)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists. Variables already set win over the
// file.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{
		Backend:     getEnvOrDefault("TASKHUB_BACKEND", BackendBaaS),
		BaaSURL:     os.Getenv("TASKHUB_BAAS_URL"),
		BaaSAnonKey: os.Getenv("TASKHUB_BAAS_ANON_KEY"),

		StateDriver:    getEnvOrDefault("TASKHUB_STATE_DRIVER", StateDriverSQLite),
		DatabaseFile:   getEnvOrDefault("TASKHUB_DATABASE_FILE", "taskhub.db"),
		RedisAddr:      getEnvOrDefault("TASKHUB_REDIS_ADDR", "localhost:6379"),
		RedisPassword:  os.Getenv("TASKHUB_REDIS_PASSWORD"),
		RedisDB:        getEnvIntOrDefault("TASKHUB_REDIS_DB", 0),
		RedisStateTTL:  getEnvDurationOrDefault("TASKHUB_REDIS_STATE_TTL", 30*24*time.Hour),
		MasterKey:      os.Getenv("TASKHUB_MASTER_KEY"),
		MasterKeyPath:  os.Getenv("TASKHUB_MASTER_KEY_PATH"),
		CacheStale:     getEnvDurationOrDefault("TASKHUB_CACHE_STALE_AFTER", 5*time.Minute),
		RefreshEvery:   getEnvDurationOrDefault("TASKHUB_REFRESH_INTERVAL", time.Minute),
		RemoteTimeout:  getEnvDurationOrDefault("TASKHUB_REMOTE_TIMEOUT", 10*time.Second),
		LoadingTimeout: getEnvDurationOrDefault("TASKHUB_LOADING_TIMEOUT", 8*time.Second),
		MaxRetries:     getEnvIntOrDefault("TASKHUB_MAX_RETRIES", 3),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendBaaS:
		if c.BaaSURL == "" || c.BaaSAnonKey == "" {
			return errors.New("TASKHUB_BAAS_URL and TASKHUB_BAAS_ANON_KEY are required for the baas backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown TASKHUB_BACKEND %q (want %s or %s)", c.Backend, BackendBaaS, BackendMemory)
	}

	switch c.StateDriver {
	case StateDriverSQLite, StateDriverRedis:
	default:
		return fmt.Errorf("unknown TASKHUB_STATE_DRIVER %q (want %s or %s)", c.StateDriver, StateDriverSQLite, StateDriverRedis)
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}

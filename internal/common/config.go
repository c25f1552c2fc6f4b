package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Upload   UploadConfig
	Worker   WorkerConfig
	Watch    WatchConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr string
}

// UploadConfig holds upload-storage configuration. Dir is the process-wide
// temp directory for uploaded documents; it is injected into the components
// that touch it rather than read ambiently.
type UploadConfig struct {
	Dir string
}

// WorkerConfig holds configuration for the external analysis worker.
type WorkerConfig struct {
	Python  string        // interpreter binary; default "python3"
	Script  string        // path to the worker script
	Timeout time.Duration // bounded wait per invocation; process is killed on overrun
}

// WatchConfig holds the optional drop directory. When Dir is empty the
// watcher is not started.
type WatchConfig struct {
	Dir      string
	Source   string
	Debounce time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", "file:reports.db"),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		},
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "./uploads"),
		},
		Worker: WorkerConfig{
			Python:  getEnv("WORKER_PYTHON", "python3"),
			Script:  getEnv("WORKER_SCRIPT", "./worker/nlp_worker.py"),
			Timeout: getEnvAsDuration("WORKER_TIMEOUT", 120*time.Second),
		},
		Watch: WatchConfig{
			Dir:      getEnv("WATCH_DIR", ""),
			Source:   getEnv("WATCH_SOURCE", ""),
			Debounce: getEnvAsDuration("WATCH_DEBOUNCE", 500*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrValidation)
	}
	if c.Worker.Script == "" {
		return NewAppError("CONFIG_ERROR", "WORKER_SCRIPT is required", ErrValidation)
	}
	if c.Upload.Dir == "" {
		return NewAppError("CONFIG_ERROR", "UPLOAD_DIR is required", ErrValidation)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrValidation)
	}
	return nil
}

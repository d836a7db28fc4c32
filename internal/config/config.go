// Package config loads the airport configuration: a YAML file layered over
// defaults, then AIRPORT_* environment variables layered over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cx-tal-miterani/airport-operations/internal/models"
	"github.com/cx-tal-miterani/airport-operations/internal/storage"
)

// Config holds all application configuration
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Storage  StorageConfig  `yaml:"storage"`
	Server   ServerConfig   `yaml:"server"`
	Temporal TemporalConfig `yaml:"temporal"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// StorageConfig selects the snapshot backend
type StorageConfig struct {
	Driver      storage.Driver   `yaml:"driver"`
	DataDir     string           `yaml:"data_dir"`
	SQLitePath  string           `yaml:"sqlite_path"`
	PostgresDSN string           `yaml:"postgres_dsn"`
	S3          storage.S3Config `yaml:"s3"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// LiveUpdates enables the per-flight websocket endpoint.
	LiveUpdates bool `yaml:"live_updates"`
}

// TemporalConfig holds the Temporal connection. When Enabled, the server
// books through the workflow and the worker process must be running.
type TemporalConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Host      string `yaml:"host"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Storage: StorageConfig{
			Driver:     storage.DriverFile,
			DataDir:    "data",
			SQLitePath: "airport.db",
			S3:         storage.S3Config{Region: "us-east-1", Prefix: "airport/"},
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			LiveUpdates:     true,
		},
		Temporal: TemporalConfig{
			Host:      "localhost:7233",
			Namespace: "default",
			TaskQueue: models.BookingTaskQueue,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Log.Level = getEnv("AIRPORT_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("AIRPORT_LOG_FORMAT", c.Log.Format)

	c.Storage.Driver = storage.Driver(getEnv("AIRPORT_STORAGE_DRIVER", string(c.Storage.Driver)))
	c.Storage.DataDir = getEnv("AIRPORT_DATA_DIR", c.Storage.DataDir)
	c.Storage.SQLitePath = getEnv("AIRPORT_SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.PostgresDSN = getEnv("DATABASE_URL", c.Storage.PostgresDSN)
	c.Storage.S3.Bucket = getEnv("AIRPORT_S3_BUCKET", c.Storage.S3.Bucket)
	c.Storage.S3.Region = getEnv("AIRPORT_S3_REGION", c.Storage.S3.Region)
	c.Storage.S3.Endpoint = getEnv("AIRPORT_S3_ENDPOINT", c.Storage.S3.Endpoint)
	c.Storage.S3.PathStyle = getBoolEnv("AIRPORT_S3_PATH_STYLE", c.Storage.S3.PathStyle)
	c.Storage.S3.Prefix = getEnv("AIRPORT_S3_PREFIX", c.Storage.S3.Prefix)

	c.Server.Addr = getEnv("AIRPORT_ADDR", c.Server.Addr)
	c.Server.ReadTimeout = getDurationEnv("AIRPORT_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("AIRPORT_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getDurationEnv("AIRPORT_SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.LiveUpdates = getBoolEnv("AIRPORT_LIVE_UPDATES", c.Server.LiveUpdates)

	c.Temporal.Enabled = getBoolEnv("TEMPORAL_ENABLED", c.Temporal.Enabled)
	c.Temporal.Host = getEnv("TEMPORAL_HOST", c.Temporal.Host)
	c.Temporal.Namespace = getEnv("TEMPORAL_NAMESPACE", c.Temporal.Namespace)
	c.Temporal.TaskQueue = getEnv("TEMPORAL_TASK_QUEUE", c.Temporal.TaskQueue)
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []error

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format))
	}

	switch c.Storage.Driver {
	case storage.DriverFile:
		if c.Storage.DataDir == "" {
			errs = append(errs, errors.New("storage.data_dir is required for the file driver"))
		}
	case storage.DriverSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("storage.sqlite_path is required for the sqlite driver"))
		}
	case storage.DriverPostgres:
		if c.Storage.PostgresDSN == "" {
			errs = append(errs, errors.New("storage.postgres_dsn is required for the postgres driver"))
		}
	case storage.DriverS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("storage.s3.bucket is required for the s3 driver"))
		}
	case storage.DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.Storage.Driver))
	}

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if c.Temporal.Enabled && c.Temporal.Host == "" {
		errs = append(errs, errors.New("temporal.host is required when temporal is enabled"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// StorageOptions converts the storage section for storage.Open
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.Storage.Driver,
		DataDir:     c.Storage.DataDir,
		SQLitePath:  c.Storage.SQLitePath,
		PostgresDSN: c.Storage.PostgresDSN,
		S3:          c.Storage.S3,
	}
}

// NewLogger builds the slog logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", s)
	}
	return level, nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

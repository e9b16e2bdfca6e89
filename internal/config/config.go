package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type StorageBackend string

const (
	StorageSQL      StorageBackend = "sql"       // gorm tables in the application database (default)
	StorageKVSQLite StorageBackend = "kv-sqlite" // key-value records in the application database
	StorageBolt     StorageBackend = "bolt"      // key-value records in a bbolt file
	StorageMemory   StorageBackend = "memory"    // nothing persisted; for demos and tests
)

type (
	Config struct {
		HTTP
		Global
		Database
		Storage
		Catalog
		Download
		Tasks
		Refresh
		Activity
		Log
		Seed
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Storage struct {
		Backend  StorageBackend
		BoltPath string
	}
	Catalog struct {
		URL string        // Remote content pack; empty uses the bundled catalog
		TTL time.Duration // How long a fetched pack is reused
	}
	Download struct {
		ItemDelay  time.Duration // Pause between stored items
		StaleAfter time.Duration // Runs without progress for this long are failed
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Refresh struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * 0" = Sundays at 03:00
	}
	Activity struct {
		Retention time.Duration // Older events are pruned at startup; 0 keeps everything
	}
	Log struct {
		Level  string
		Format string // "text" or "json"
	}
	Seed struct {
		OnStart bool // Download every language into an empty cache at startup
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Storage defaults
	v.SetDefault("storage_backend", string(StorageSQL))
	v.SetDefault("storage_bolt_path", DefaultBoltPath)

	// Catalog defaults
	v.SetDefault("catalog_url", "")
	v.SetDefault("catalog_ttl", "5m")

	// Download defaults
	v.SetDefault("download_item_delay", "0s")
	v.SetDefault("download_stale_after", "10m")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "45m")
	v.SetDefault("task_cleanup_interval", "1h")

	// Refresh defaults
	v.SetDefault("refresh_enabled", false)
	v.SetDefault("refresh_schedule", DefaultRefreshSchedule)

	v.SetDefault("activity_retention", "720h")

	// Logging defaults
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetDefault("seed_on_start", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Storage: Storage{
			Backend:  StorageBackend(strings.ToLower(v.GetString("STORAGE_BACKEND"))),
			BoltPath: v.GetString("STORAGE_BOLT_PATH"),
		},
		Catalog: Catalog{
			URL: v.GetString("CATALOG_URL"),
			TTL: v.GetDuration("CATALOG_TTL"),
		},
		Download: Download{
			ItemDelay:  v.GetDuration("DOWNLOAD_ITEM_DELAY"),
			StaleAfter: v.GetDuration("DOWNLOAD_STALE_AFTER"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Refresh: Refresh{
			Enabled:  v.GetBool("REFRESH_ENABLED"),
			Schedule: v.GetString("REFRESH_SCHEDULE"),
		},
		Activity: Activity{
			Retention: v.GetDuration("ACTIVITY_RETENTION"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Seed: Seed{
			OnStart: v.GetBool("SEED_ON_START"),
		},
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case StorageSQL, StorageKVSQLite, StorageBolt, StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageBolt && c.Storage.BoltPath == "" {
		return fmt.Errorf("STORAGE_BOLT_PATH is required for the bolt backend")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Tasks.Enabled && c.Tasks.Workers < 1 {
		return fmt.Errorf("TASK_WORKERS must be at least 1, got %d", c.Tasks.Workers)
	}
	if c.Activity.Retention < 0 {
		return fmt.Errorf("ACTIVITY_RETENTION must not be negative")
	}
	if c.Download.ItemDelay < 0 {
		return fmt.Errorf("DOWNLOAD_ITEM_DELAY must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return nil
}

// SetupLogging configures the global logrus logger.
func SetupLogging(cfg Log) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	log.SetOutput(os.Stdout)
	log.SetLevel(level)
	switch cfg.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "", "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unsupported log format %q", cfg.Format)
	}
	return nil
}

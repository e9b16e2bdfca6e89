package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// defaultSettings are written on first start and never overwritten. The
// refresh schedule is not seeded: REFRESH_ENABLED and REFRESH_SCHEDULE apply
// until the schedule is changed through the API.
var defaultSettings = map[string]string{
	entities.SettingKeyRefreshLastStatus: "never",
}

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	return NewDatabaseWithLogLevel(dbPath, logger.Warn)
}

func NewDatabaseWithLogLevel(dbPath string, level logger.LogLevel) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Downloads, activity logging and the settings store write concurrently.
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Stotra{},
		&entities.LanguageDownload{},
		&entities.DownloadQueueItem{},
		&entities.DownloadRun{},
		&entities.Setting{},
		&entities.KVEntry{},
		&entities.ActivityEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedSettings(); err != nil {
		return nil, fmt.Errorf("failed to seed settings: %w", err)
	}

	log.WithField("path", dbPath).Info("Database initialized")

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the database connection.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedSettings() error {
	for key, value := range defaultSettings {
		var existing entities.Setting
		result := d.DB.Where("key = ?", key).First(&existing)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			if err := d.DB.Create(&entities.Setting{Key: key, Value: value}).Error; err != nil {
				return fmt.Errorf("failed to create setting %s: %w", key, err)
			}
			log.WithField("key", key).Debug("Created default setting")
		} else if result.Error != nil {
			return result.Error
		}
	}
	return nil
}

// TableCounts reports the row count of every content table.
func (d *Database) TableCounts() (map[string]int64, error) {
	tables := []interface{ TableName() string }{
		entities.Stotra{},
		entities.LanguageDownload{},
		entities.DownloadQueueItem{},
		entities.Setting{},
		entities.KVEntry{},
		entities.ActivityEvent{},
	}
	counts := make(map[string]int64, len(tables))
	for _, t := range tables {
		var n int64
		if err := d.DB.Table(t.TableName()).Count(&n).Error; err != nil {
			return nil, err
		}
		counts[t.TableName()] = n
	}
	return counts, nil
}

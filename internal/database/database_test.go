package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := NewDatabaseWithLogLevel(dbPath, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDatabase_MigratesAndSeeds(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"stotras", "language_downloads", "download_queue", "download_runs", "settings", "kv_entries", "activity_events"} {
		assert.True(t, db.DB.Migrator().HasTable(table), "table %s", table)
	}

	var setting entities.Setting
	require.NoError(t, db.DB.Where("key = ?", entities.SettingKeyRefreshLastStatus).First(&setting).Error)
	assert.Equal(t, "never", setting.Value)

	var n int64
	require.NoError(t, db.DB.Model(&entities.Setting{}).Where("key = ?", entities.SettingKeyRefreshEnabled).Count(&n).Error)
	assert.Zero(t, n, "refresh_enabled must not shadow the environment")

	require.NoError(t, db.Ping(context.Background()))
}

func TestNewDatabase_KeepsExistingSettings(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabaseWithLogLevel(dbPath, logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.DB.Model(&entities.Setting{}).
		Where("key = ?", entities.SettingKeyRefreshLastStatus).
		Update("value", "success").Error)
	require.NoError(t, db.Close())

	db, err = NewDatabaseWithLogLevel(dbPath, logger.Silent)
	require.NoError(t, err)
	defer db.Close()

	var setting entities.Setting
	require.NoError(t, db.DB.Where("key = ?", entities.SettingKeyRefreshLastStatus).First(&setting).Error)
	assert.Equal(t, "success", setting.Value)
}

func TestDatabase_TableCounts(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.DB.Create(&entities.Stotra{ID: "a", Title: "A", Language: entities.LanguageTelugu, Category: entities.CategoryMantra}).Error)

	counts, err := db.TableCounts()
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts["stotras"])
	assert.Equal(t, int64(len(defaultSettings)), counts["settings"])
	assert.Equal(t, int64(0), counts["download_queue"])
}

package settings

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_settings.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Setting{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, cleanup
}

func TestRepository_SetSetting_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting(entities.SettingKeyRefreshSchedule, "0 4 * * *")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyRefreshSchedule)
	require.NoError(t, err)
	assert.Equal(t, entities.SettingKeyRefreshSchedule, setting.Key)
	assert.Equal(t, "0 4 * * *", setting.Value)
}

func TestRepository_SetSetting_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Set initial value
	err := repo.SetSetting(entities.SettingKeyRefreshSchedule, "0 3 * * 0")
	require.NoError(t, err)

	// Update value
	err = repo.SetSetting(entities.SettingKeyRefreshSchedule, "0 4 * * *")
	require.NoError(t, err)

	setting, err := repo.GetSetting(entities.SettingKeyRefreshSchedule)
	require.NoError(t, err)
	assert.Equal(t, "0 4 * * *", setting.Value)
}

func TestRepository_GetSetting_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetSetting("nonexistent")

	assert.Error(t, err)
}

func TestRepository_DeleteSetting(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSetting("to-delete", "value")
	require.NoError(t, err)

	err = repo.DeleteSetting("to-delete")
	require.NoError(t, err)

	_, err = repo.GetSetting("to-delete")
	assert.Error(t, err)
}

func TestRepository_DeleteSetting_NonExistent(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	// Should not error even if key doesn't exist
	err := repo.DeleteSetting("nonexistent")
	assert.NoError(t, err)
}

func TestRepository_SetSettings(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.SetSettings(map[string]string{
		entities.SettingKeyRefreshLastStatus: "completed",
		entities.SettingKeyRefreshLastError:  "",
	})
	require.NoError(t, err)

	assert.Equal(t, "completed", repo.GetString(entities.SettingKeyRefreshLastStatus, "never"))
	assert.Equal(t, "never", repo.GetString(entities.SettingKeyRefreshLastError, "never"))
}

func TestRepository_GetBool(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	assert.True(t, repo.GetBool(entities.SettingKeyRefreshEnabled, true))

	require.NoError(t, repo.SetSetting(entities.SettingKeyRefreshEnabled, "false"))
	assert.False(t, repo.GetBool(entities.SettingKeyRefreshEnabled, true))

	require.NoError(t, repo.SetSetting(entities.SettingKeyRefreshEnabled, "sometimes"))
	assert.True(t, repo.GetBool(entities.SettingKeyRefreshEnabled, true))
}

package activity

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "activity.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ActivityEvent{}))
	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventDownload,
		Action:      "language_download",
		Description: "Downloaded 3 stotras for telugu",
		Language:    entities.LanguageTelugu,
		Status:      entities.ActivityStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	for i := 0; i < 12; i++ {
		require.NoError(t, repo.LogEvent(&entities.ActivityEvent{
			EventType: entities.ActivityEventDownload,
			Action:    "language_download",
			Language:  entities.LanguageSanskrit,
			Status:    entities.ActivityStatusSuccess,
			CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.LogEvent(&entities.ActivityEvent{
			EventType: entities.ActivityEventClear,
			Action:    "language_clear",
			Language:  entities.LanguageKannada,
			Status:    entities.ActivityStatusSuccess,
		}))
	}

	t.Run("all events", func(t *testing.T) {
		events, total, err := repo.GetEvents("", 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 15)
	})

	t.Run("pagination", func(t *testing.T) {
		events, total, err := repo.GetEvents("", 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, events, 5)

		rest, _, err := repo.GetEvents("", 50, 10)
		require.NoError(t, err)
		assert.Len(t, rest, 5)
	})

	t.Run("filter by type", func(t *testing.T) {
		events, total, err := repo.GetEvents(entities.ActivityEventClear, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		for _, e := range events {
			assert.Equal(t, entities.ActivityEventClear, e.EventType)
		}
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(entities.ActivityEventDownload, 50, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
		}
	})

	t.Run("by language", func(t *testing.T) {
		events, err := repo.GetLanguageEvents(entities.LanguageKannada, 2)
		require.NoError(t, err)
		assert.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, entities.LanguageKannada, e.Language)
		}
	})
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.ActivityEvent{Action: "old", CreatedAt: now.Add(-48 * time.Hour)}))
	require.NoError(t, repo.LogEvent(&entities.ActivityEvent{Action: "older", CreatedAt: now.Add(-72 * time.Hour)}))
	require.NoError(t, repo.LogEvent(&entities.ActivityEvent{Action: "fresh", CreatedAt: now}))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	events, total, err := repo.GetEvents("", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "fresh", events[0].Action)
}

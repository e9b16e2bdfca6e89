package downloads

import (
	"context"
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

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_downloads.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.LanguageDownload{}, &entities.DownloadQueueItem{}, &entities.DownloadRun{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return db, cleanup
}

func TestRepository_LanguageDownload(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	d, err := repo.GetLanguageDownload(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, entities.LanguageTelugu, d.Language)
	assert.False(t, d.IsDownloaded)

	require.NoError(t, repo.UpdateLanguageDownloadProgress(ctx, entities.LanguageTelugu, 0, 4, 0))
	require.NoError(t, repo.UpdateLanguageDownloadProgress(ctx, entities.LanguageTelugu, 50, 4, 2))

	d, err = repo.GetLanguageDownload(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, 50.0, d.Progress)
	assert.Equal(t, 4, d.TotalStotras)
	assert.Equal(t, 2, d.DownloadedStotras)
	assert.False(t, d.IsDownloaded)
	assert.Nil(t, d.LastDownloadAt)

	require.NoError(t, repo.UpdateLanguageDownloadProgress(ctx, entities.LanguageTelugu, 100, 4, 4))
	ok, err := repo.IsLanguageDownloaded(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.True(t, ok)

	d, err = repo.GetLanguageDownload(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.NotNil(t, d.LastDownloadAt)

	require.NoError(t, repo.ClearLanguageDownload(ctx, entities.LanguageTelugu))
	ok, err = repo.IsLanguageDownloaded(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_MarkLanguageAsDownloaded(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("without prior record", func(t *testing.T) {
		require.NoError(t, repo.MarkLanguageAsDownloaded(ctx, entities.LanguageKannada))
		ok, err := repo.IsLanguageDownloaded(ctx, entities.LanguageKannada)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("after partial progress", func(t *testing.T) {
		require.NoError(t, repo.UpdateLanguageDownloadProgress(ctx, entities.LanguageSanskrit, 25, 8, 2))
		require.NoError(t, repo.MarkLanguageAsDownloaded(ctx, entities.LanguageSanskrit))

		d, err := repo.GetLanguageDownload(ctx, entities.LanguageSanskrit)
		require.NoError(t, err)
		assert.True(t, d.IsDownloaded)
		assert.Equal(t, 100.0, d.Progress)
		assert.Equal(t, 8, d.DownloadedStotras)
	})
}

func TestRepository_Queue(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.AddToQueue(ctx, "run-1", entities.LanguageKannada, []string{"a", "b", "c"}))
	require.NoError(t, repo.UpdateQueueStatus(ctx, "run-1", "a", entities.QueueStatusCompleted))
	require.NoError(t, repo.UpdateQueueStatus(ctx, "run-1", "b", entities.QueueStatusFailed))

	summary, err := repo.QueueSummary(ctx, entities.LanguageKannada)
	require.NoError(t, err)
	assert.Equal(t, 1, summary[entities.QueueStatusCompleted])
	assert.Equal(t, 1, summary[entities.QueueStatusFailed])
	assert.Equal(t, 1, summary[entities.QueueStatusPending])

	// a new run replaces the old entries
	require.NoError(t, repo.AddToQueue(ctx, "run-2", entities.LanguageKannada, []string{"a"}))
	summary, err = repo.QueueSummary(ctx, entities.LanguageKannada)
	require.NoError(t, err)
	assert.Equal(t, map[entities.QueueStatus]int{entities.QueueStatusPending: 1}, summary)

	// status updates of the old run no longer match
	require.NoError(t, repo.UpdateQueueStatus(ctx, "run-1", "a", entities.QueueStatusFailed))
	summary, err = repo.QueueSummary(ctx, entities.LanguageKannada)
	require.NoError(t, err)
	assert.Equal(t, 1, summary[entities.QueueStatusPending])

	require.NoError(t, repo.AddToQueue(ctx, "run-3", entities.LanguageTelugu, []string{"x"}))
	require.NoError(t, repo.ClearQueue(ctx, entities.LanguageKannada))
	summary, err = repo.QueueSummary(ctx, entities.LanguageKannada)
	require.NoError(t, err)
	assert.Empty(t, summary)
	summary, err = repo.QueueSummary(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Len(t, summary, 1)

	require.NoError(t, repo.ClearQueue(ctx, ""))
	summary, err = repo.QueueSummary(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestRunRepository_Lifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	runs := NewRunRepository(db, 0)

	require.NoError(t, runs.StartSync(entities.LanguageTelugu, "run-1", 10))
	running, err := runs.IsSyncRunning(entities.LanguageTelugu)
	require.NoError(t, err)
	assert.True(t, running)

	require.NoError(t, runs.UpdateProgress(entities.LanguageTelugu, 4, "Hanuman Chalisa"))
	run, err := runs.GetRun(entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, 4, run.Processed)
	assert.Equal(t, "Hanuman Chalisa", run.CurrentItem)

	require.NoError(t, runs.CompleteSync(entities.LanguageTelugu, false, "network down"))
	run, err = runs.GetRun(entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusFailed, run.Status)
	assert.Equal(t, "network down", run.Error)
	assert.NotNil(t, run.CompletedAt)

	// restart resets the record
	require.NoError(t, runs.StartSync(entities.LanguageTelugu, "run-2", 5))
	run, err = runs.GetRun(entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, "run-2", run.RunID)
	assert.Equal(t, 0, run.Processed)
	assert.Empty(t, run.Error)
	assert.Nil(t, run.CompletedAt)

	list, err := runs.ListRuns()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunRepository_Stale(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	runs := NewRunRepository(db, time.Minute)

	require.NoError(t, runs.StartSync(entities.LanguageKannada, "run-1", 3))
	require.NoError(t, db.Model(&entities.DownloadRun{}).
		Where("language = ?", entities.LanguageKannada).
		Update("updated_at", time.Now().Add(-time.Hour)).Error)

	running, err := runs.IsSyncRunning(entities.LanguageKannada)
	require.NoError(t, err)
	assert.False(t, running)

	run, err := runs.GetRun(entities.LanguageKannada)
	require.NoError(t, err)
	assert.Equal(t, entities.RunStatusFailed, run.Status)
}

func TestRunRepository_FailStaleRuns(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	runs := NewRunRepository(db, 0)

	require.NoError(t, runs.StartSync(entities.LanguageKannada, "run-1", 3))
	require.NoError(t, runs.StartSync(entities.LanguageTelugu, "run-2", 3))
	require.NoError(t, runs.CompleteSync(entities.LanguageTelugu, true, ""))

	n, err := runs.FailStaleRuns()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

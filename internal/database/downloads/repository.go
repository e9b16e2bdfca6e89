// Package downloads provides database operations for language download
// state and the per-item download queue.
//
// # Interface Implementation
//
//	var _ repository.DownloadTracker = (*Repository)(nil)
//	var _ offline.DownloadQueue = (*Repository)(nil)
//
// # Usage
//
//	repo := downloads.NewRepository(db)
//	done, err := repo.IsLanguageDownloaded(ctx, entities.LanguageKannada)
package downloads

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

// Repository handles language download and queue database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new downloads repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetLanguageDownload returns the download state of a language. A language
// that was never downloaded yields a zero record, not an error.
func (r *Repository) GetLanguageDownload(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error) {
	var d entities.LanguageDownload
	err := r.db.WithContext(ctx).Where("language = ?", language).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.EmptyDownload(language), nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateLanguageDownloadProgress creates or updates the download record.
// is_downloaded follows progress reaching 100.
func (r *Repository) UpdateLanguageDownloadProgress(ctx context.Context, language entities.ContentLanguage, progress float64, total, downloaded int) error {
	d := entities.LanguageDownload{
		Language:          language,
		IsDownloaded:      progress >= 100,
		Progress:          progress,
		TotalStotras:      total,
		DownloadedStotras: downloaded,
	}
	columns := []string{"is_downloaded", "download_progress", "total_stotras", "downloaded_stotras"}
	if d.IsDownloaded {
		now := time.Now()
		d.LastDownloadAt = &now
		columns = append(columns, "last_download_at")
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "language"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(&d).Error
}

func (r *Repository) MarkLanguageAsDownloaded(ctx context.Context, language entities.ContentLanguage) error {
	d, err := r.GetLanguageDownload(ctx, language)
	if err != nil {
		return err
	}
	now := time.Now()
	d.IsDownloaded = true
	d.Progress = 100
	d.DownloadedStotras = d.TotalStotras
	d.LastDownloadAt = &now
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *Repository) IsLanguageDownloaded(ctx context.Context, language entities.ContentLanguage) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.LanguageDownload{}).
		Where("language = ? AND is_downloaded = ?", language, true).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) ClearLanguageDownload(ctx context.Context, language entities.ContentLanguage) error {
	return r.db.WithContext(ctx).Where("language = ?", language).Delete(&entities.LanguageDownload{}).Error
}

// --- Download queue ---

// AddToQueue records every stotra of a run as pending, replacing any earlier
// queue entries for the language.
func (r *Repository) AddToQueue(ctx context.Context, runID string, language entities.ContentLanguage, stotraIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("language = ?", language).Delete(&entities.DownloadQueueItem{}).Error; err != nil {
			return err
		}
		if len(stotraIDs) == 0 {
			return nil
		}
		items := make([]entities.DownloadQueueItem, len(stotraIDs))
		for i, id := range stotraIDs {
			items[i] = entities.DownloadQueueItem{
				RunID:    runID,
				StotraID: id,
				Language: language,
				Status:   entities.QueueStatusPending,
			}
		}
		return tx.CreateInBatches(items, 100).Error
	})
}

func (r *Repository) UpdateQueueStatus(ctx context.Context, runID, stotraID string, status entities.QueueStatus) error {
	return r.db.WithContext(ctx).Model(&entities.DownloadQueueItem{}).
		Where("run_id = ? AND stotra_id = ?", runID, stotraID).
		Update("status", status).Error
}

// QueueSummary counts queue entries of a language by status.
func (r *Repository) QueueSummary(ctx context.Context, language entities.ContentLanguage) (map[entities.QueueStatus]int, error) {
	var rows []struct {
		Status entities.QueueStatus
		Count  int
	}
	err := r.db.WithContext(ctx).Model(&entities.DownloadQueueItem{}).
		Select("status, COUNT(*) AS count").
		Where("language = ?", language).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	summary := make(map[entities.QueueStatus]int, len(rows))
	for _, row := range rows {
		summary[row.Status] = row.Count
	}
	return summary, nil
}

// ClearQueue removes the queue entries of a language, or all entries when
// language is empty.
func (r *Repository) ClearQueue(ctx context.Context, language entities.ContentLanguage) error {
	query := r.db.WithContext(ctx)
	if language == "" {
		query = query.Where("1 = 1")
	} else {
		query = query.Where("language = ?", language)
	}
	return query.Delete(&entities.DownloadQueueItem{}).Error
}

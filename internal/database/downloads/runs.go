package downloads

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// DefaultStaleAfter is how long a running download may go without an update
// before it is considered interrupted.
const DefaultStaleAfter = 10 * time.Minute

// RunRepository stores the live progress of the latest download run per
// language.
//
//	var _ offline.ProgressReporter = (*RunRepository)(nil)
type RunRepository struct {
	db         *gorm.DB
	staleAfter time.Duration
}

// NewRunRepository creates a run repository. A non-positive staleAfter uses
// DefaultStaleAfter.
func NewRunRepository(db *gorm.DB, staleAfter time.Duration) *RunRepository {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &RunRepository{db: db, staleAfter: staleAfter}
}

// GetRun returns the latest run of a language.
func (r *RunRepository) GetRun(language entities.ContentLanguage) (*entities.DownloadRun, error) {
	var run entities.DownloadRun
	err := r.db.Where("language = ?", language).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the latest run of every language that has one.
func (r *RunRepository) ListRuns() ([]entities.DownloadRun, error) {
	var runs []entities.DownloadRun
	err := r.db.Order("language ASC").Find(&runs).Error
	return runs, err
}

// StartSync creates or resets the run record of a language.
func (r *RunRepository) StartSync(language entities.ContentLanguage, runID string, totalItems int) error {
	var run entities.DownloadRun
	result := r.db.Where("language = ?", language).First(&run)

	now := time.Now()
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		run = entities.DownloadRun{
			RunID:      runID,
			Language:   language,
			Status:     entities.RunStatusRunning,
			TotalItems: totalItems,
			StartedAt:  now,
			UpdatedAt:  now,
		}
		return r.db.Create(&run).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Reset existing record
	run.RunID = runID
	run.Status = entities.RunStatusRunning
	run.TotalItems = totalItems
	run.Processed = 0
	run.CurrentItem = ""
	run.Error = ""
	run.StartedAt = now
	run.UpdatedAt = now
	run.CompletedAt = nil

	return r.db.Save(&run).Error
}

func (r *RunRepository) UpdateProgress(language entities.ContentLanguage, processed int, currentItem string) error {
	return r.db.Model(&entities.DownloadRun{}).
		Where("language = ?", language).
		Updates(map[string]any{
			"processed":    processed,
			"current_item": currentItem,
			"updated_at":   time.Now(),
		}).Error
}

// CompleteSync marks the run completed or failed.
func (r *RunRepository) CompleteSync(language entities.ContentLanguage, succeeded bool, errorMsg string) error {
	now := time.Now()
	status := entities.RunStatusCompleted
	if !succeeded {
		status = entities.RunStatusFailed
	}

	updates := map[string]any{
		"status":       status,
		"current_item": "",
		"updated_at":   now,
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return r.db.Model(&entities.DownloadRun{}).
		Where("language = ?", language).
		Updates(updates).Error
}

// IsSyncRunning reports whether a run of the language is in progress, which
// includes downloads started by another process on the same database. A run
// not updated within the stale window is marked failed.
func (r *RunRepository) IsSyncRunning(language entities.ContentLanguage) (bool, error) {
	var run entities.DownloadRun
	err := r.db.Where("language = ? AND status = ?", language, entities.RunStatusRunning).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if run.UpdatedAt.Before(time.Now().Add(-r.staleAfter)) {
		if err := r.CompleteSync(language, false, "download was interrupted"); err != nil {
			return false, err
		}
		return false, nil
	}

	return true, nil
}

// FailStaleRuns marks every run left in the running state as failed. It is
// called at startup, when no download can be in flight.
func (r *RunRepository) FailStaleRuns() (int64, error) {
	now := time.Now()
	result := r.db.Model(&entities.DownloadRun{}).
		Where("status = ?", entities.RunStatusRunning).
		Updates(map[string]any{
			"status":       entities.RunStatusFailed,
			"error":        "download was interrupted",
			"current_item": "",
			"updated_at":   now,
			"completed_at": now,
		})
	return result.RowsAffected, result.Error
}

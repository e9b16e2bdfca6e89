package offline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/catalog"
	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

// Progress is reported after every stored item of a download.
type Progress struct {
	RunID      string                   `json:"run_id"`
	Language   entities.ContentLanguage `json:"language"`
	Percent    float64                  `json:"percent"`
	Total      int                      `json:"total"`
	Downloaded int                      `json:"downloaded"`
	Current    string                   `json:"current"`
}

// ProgressReporter receives the live state of a download run.
type ProgressReporter interface {
	StartSync(language entities.ContentLanguage, runID string, totalItems int) error
	UpdateProgress(language entities.ContentLanguage, processed int, currentItem string) error
	CompleteSync(language entities.ContentLanguage, succeeded bool, errorMsg string) error
}

// DownloadQueue records the per-item status of a download run.
type DownloadQueue interface {
	AddToQueue(ctx context.Context, runID string, language entities.ContentLanguage, stotraIDs []string) error
	UpdateQueueStatus(ctx context.Context, runID, stotraID string, status entities.QueueStatus) error
	// ClearQueue drops the entries of a language, or of all languages when
	// language is empty.
	ClearQueue(ctx context.Context, language entities.ContentLanguage) error
}

// ActivityRecorder keeps a log of content maintenance operations.
type ActivityRecorder interface {
	LanguageDownloaded(language entities.ContentLanguage, stotras int, err error)
	LanguageCleared(language entities.ContentLanguage, deleted int, err error)
	CacheReset(seeded int, err error)
	Refreshed(refreshed []entities.ContentLanguage, failed map[entities.ContentLanguage]string)
}

type noopActivity struct{}

func (noopActivity) LanguageDownloaded(entities.ContentLanguage, int, error) {}
func (noopActivity) LanguageCleared(entities.ContentLanguage, int, error)    {}
func (noopActivity) CacheReset(int, error)                                   {}

func (noopActivity) Refreshed([]entities.ContentLanguage, map[entities.ContentLanguage]string) {}

type noopReporter struct{}

func (noopReporter) StartSync(entities.ContentLanguage, string, int) error      { return nil }
func (noopReporter) UpdateProgress(entities.ContentLanguage, int, string) error { return nil }
func (noopReporter) CompleteSync(entities.ContentLanguage, bool, string) error  { return nil }

type noopQueue struct{}

func (noopQueue) AddToQueue(context.Context, string, entities.ContentLanguage, []string) error {
	return nil
}
func (noopQueue) UpdateQueueStatus(context.Context, string, string, entities.QueueStatus) error {
	return nil
}
func (noopQueue) ClearQueue(context.Context, entities.ContentLanguage) error { return nil }

// DownloadLanguage copies every catalog stotra of a language into the cache,
// one at a time, and marks the language downloaded when all are stored.
// Favorites and reading progress already in the cache are kept. Only one
// download runs at a time per manager.
//
// Downloading a language that is already downloaded refreshes it: the
// download record keeps its completed state until every item is stored, so a
// failed or cancelled refresh leaves the language readable from the cache.
func (m *Manager) DownloadLanguage(ctx context.Context, language entities.ContentLanguage, onProgress func(Progress)) (err error) {
	if !language.Valid() {
		return fmt.Errorf("%w: %q", entities.ErrUnknownLanguage, language)
	}
	if !m.downloading.CompareAndSwap(false, true) {
		return ErrDownloadInProgress
	}
	m.current.Store(language)

	var total int
	defer func() {
		m.current.Store(entities.ContentLanguage(""))
		m.downloading.Store(false)
		m.activity.LanguageDownloaded(language, total, err)
	}()

	logger := log.WithField("language", language)

	stotras, err := catalog.ByLanguage(ctx, m.source, language)
	if err != nil {
		return fmt.Errorf("failed to load catalog for %s: %w", language, err)
	}
	total = len(stotras)
	if total == 0 {
		return fmt.Errorf("%w: %s", ErrNoContent, language)
	}

	refresh, derr := m.tracker.IsLanguageDownloaded(ctx, language)
	if derr != nil {
		logger.WithError(derr).Warn("Failed to read download state")
	}

	runID := uuid.NewString()
	logger = logger.WithFields(log.Fields{"run_id": runID, "refresh": refresh})
	logger.WithField("total", total).Info("Starting language download")

	if err := m.reporter.StartSync(language, runID, total); err != nil {
		logger.WithError(err).Warn("Failed to record download start")
	}
	ids := make([]string, total)
	for i, s := range stotras {
		ids[i] = s.ID
	}
	if err := m.queue.AddToQueue(ctx, runID, language, ids); err != nil {
		logger.WithError(err).Warn("Failed to queue download items")
	}

	err = m.download(ctx, runID, language, stotras, refresh, onProgress)
	if err != nil {
		logger.WithError(err).Error("Language download failed")
		if rerr := m.reporter.CompleteSync(language, false, err.Error()); rerr != nil {
			logger.WithError(rerr).Warn("Failed to record download failure")
		}
		return err
	}

	if rerr := m.reporter.CompleteSync(language, true, ""); rerr != nil {
		logger.WithError(rerr).Warn("Failed to record download completion")
	}
	logger.WithField("total", total).Info("Language download completed")
	return nil
}

// download stores the items. When refresh is set the download record is only
// written once all items are stored.
func (m *Manager) download(ctx context.Context, runID string, language entities.ContentLanguage, stotras []entities.Stotra, refresh bool, onProgress func(Progress)) error {
	total := len(stotras)
	if !refresh {
		if err := m.tracker.UpdateLanguageDownloadProgress(ctx, language, 0, total, 0); err != nil {
			return fmt.Errorf("failed to initialise download progress: %w", err)
		}
	}

	for i := range stotras {
		s := &stotras[i]
		if err := m.wait(ctx); err != nil {
			m.markQueue(ctx, runID, s.ID, entities.QueueStatusFailed)
			return err
		}
		m.markQueue(ctx, runID, s.ID, entities.QueueStatusDownloading)

		if err := m.storePreservingState(ctx, s); err != nil {
			m.markQueue(ctx, runID, s.ID, entities.QueueStatusFailed)
			return err
		}

		done := i + 1
		percent := float64(done) / float64(total) * 100
		if !refresh {
			if err := m.tracker.UpdateLanguageDownloadProgress(ctx, language, percent, total, done); err != nil {
				return fmt.Errorf("failed to update download progress: %w", err)
			}
		}
		m.markQueue(ctx, runID, s.ID, entities.QueueStatusCompleted)
		if err := m.reporter.UpdateProgress(language, done, s.Title); err != nil {
			log.WithError(err).WithField("language", language).Warn("Failed to report download progress")
		}

		if onProgress != nil {
			onProgress(Progress{
				RunID:      runID,
				Language:   language,
				Percent:    percent,
				Total:      total,
				Downloaded: done,
				Current:    s.Title,
			})
		}
	}

	if refresh {
		if err := m.tracker.UpdateLanguageDownloadProgress(ctx, language, 100, total, total); err != nil {
			return fmt.Errorf("failed to update download progress: %w", err)
		}
	}
	if err := m.tracker.MarkLanguageAsDownloaded(ctx, language); err != nil {
		return fmt.Errorf("failed to mark %s as downloaded: %w", language, err)
	}
	return nil
}

// storePreservingState writes a catalog record, keeping reader state from an
// existing cached copy.
func (m *Manager) storePreservingState(ctx context.Context, s *entities.Stotra) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	existing, err := m.store.GetStotraByID(ctx, s.ID)
	switch {
	case err == nil:
		s.ApplyUserState(existing.UserState())
		s.CreatedAt = existing.CreatedAt
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("failed to read cached stotra %s: %w", s.ID, err)
	}

	if err := m.store.StoreStotra(ctx, s); err != nil {
		return fmt.Errorf("failed to store stotra %s: %w", s.ID, err)
	}
	return nil
}

func (m *Manager) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.itemDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(m.itemDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *Manager) markQueue(ctx context.Context, runID, stotraID string, status entities.QueueStatus) {
	// the run may have been cancelled; status writes still need to land
	if err := m.queue.UpdateQueueStatus(context.WithoutCancel(ctx), runID, stotraID, status); err != nil {
		log.WithError(err).WithField("stotra", stotraID).Warn("Failed to update download queue")
	}
}

// ClearLanguage removes the cached stotras, the download record and the
// download queue of a language. Reader state stored with those stotras goes
// with them. It holds the download slot, so no download runs meanwhile.
func (m *Manager) ClearLanguage(ctx context.Context, language entities.ContentLanguage) (int, error) {
	if !language.Valid() {
		return 0, fmt.Errorf("%w: %q", entities.ErrUnknownLanguage, language)
	}
	if !m.downloading.CompareAndSwap(false, true) {
		return 0, ErrDownloadInProgress
	}
	defer m.downloading.Store(false)

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	n, err := m.store.DeleteLanguage(ctx, language)
	if err != nil {
		err = fmt.Errorf("failed to delete %s stotras: %w", language, err)
		m.activity.LanguageCleared(language, 0, err)
		return 0, err
	}
	if err := m.tracker.ClearLanguageDownload(ctx, language); err != nil {
		err = fmt.Errorf("failed to clear %s download record: %w", language, err)
		m.activity.LanguageCleared(language, n, err)
		return n, err
	}
	if err := m.queue.ClearQueue(ctx, language); err != nil {
		log.WithError(err).WithField("language", language).Warn("Failed to clear download queue")
	}
	log.WithFields(log.Fields{"language": language, "deleted": n}).Info("Cleared language content")
	m.activity.LanguageCleared(language, n, nil)
	return n, nil
}

// DownloadedLanguages lists languages whose download completed.
func (m *Manager) DownloadedLanguages(ctx context.Context) ([]entities.ContentLanguage, error) {
	return repository.DownloadedLanguages(ctx, m.tracker)
}

// RefreshResult summarises a refresh of the downloaded languages.
type RefreshResult struct {
	Refreshed []entities.ContentLanguage          `json:"refreshed"`
	Failed    map[entities.ContentLanguage]string `json:"failed,omitempty"`
}

// invalidator is implemented by sources that cache fetched content.
type invalidator interface {
	Invalidate()
}

// RefreshDownloaded downloads every already-downloaded language again so the
// cache picks up catalog changes. A failure of one language does not stop the
// others; the returned error joins all failures.
func (m *Manager) RefreshDownloaded(ctx context.Context) (RefreshResult, error) {
	result := RefreshResult{Failed: map[entities.ContentLanguage]string{}}

	languages, err := m.DownloadedLanguages(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list downloaded languages: %w", err)
	}
	if len(languages) == 0 {
		log.Info("No downloaded languages to refresh")
		return result, nil
	}
	if inv, ok := m.source.(invalidator); ok {
		inv.Invalidate()
	}

	var errs []error
	for _, lang := range languages {
		if err := m.DownloadLanguage(ctx, lang, nil); err != nil {
			result.Failed[lang] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", lang, err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		result.Refreshed = append(result.Refreshed, lang)
	}
	m.activity.Refreshed(result.Refreshed, result.Failed)
	return result, errors.Join(errs...)
}

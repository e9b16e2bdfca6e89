// Package activity records content maintenance operations (downloads,
// clears, refreshes, resets and schedule changes) in the database.
package activity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/database/activity"
	"github.com/bhaktivani/bhaktivani/internal/entities"
)

const maxErrorLen = 500

// Service provides high-level activity logging.
type Service struct {
	repo *activity.Repository
	wg   sync.WaitGroup
}

// NewService creates a new activity service.
func NewService(repo *activity.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an event synchronously.
func (s *Service) Log(event *entities.ActivityEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.ActivityEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.WithError(err).WithField("action", event.Action).Warn("Failed to log activity event")
		}
	}()
}

// Flush waits for pending asynchronous writes.
func (s *Service) Flush() {
	s.wg.Wait()
}

// LanguageDownloaded records a finished or failed language download.
func (s *Service) LanguageDownloaded(language entities.ContentLanguage, stotras int, err error) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventDownload,
		Action:      "language_download",
		Description: fmt.Sprintf("Downloaded %d stotras for %s", stotras, language),
		Language:    language,
		Metadata:    metadata(map[string]any{"stotras": stotras}),
	}
	finish(event, err)
	s.LogAsync(event)
}

// LanguageCleared records the removal of a language's cached content.
func (s *Service) LanguageCleared(language entities.ContentLanguage, deleted int, err error) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventClear,
		Action:      "language_clear",
		Description: fmt.Sprintf("Removed %d stotras for %s", deleted, language),
		Language:    language,
		Metadata:    metadata(map[string]any{"deleted": deleted}),
	}
	finish(event, err)
	s.LogAsync(event)
}

// CacheReset records a full cache reset.
func (s *Service) CacheReset(seeded int, err error) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventReset,
		Action:      "cache_reset",
		Description: fmt.Sprintf("Reset cache and seeded %d stotras", seeded),
		Metadata:    metadata(map[string]any{"seeded": seeded}),
	}
	finish(event, err)
	s.LogAsync(event)
}

// Refreshed records a refresh of the downloaded languages. Any failed
// language marks the event failed.
func (s *Service) Refreshed(refreshed []entities.ContentLanguage, failed map[entities.ContentLanguage]string) {
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventRefresh,
		Action:      "downloaded_refresh",
		Description: fmt.Sprintf("Refreshed %d languages", len(refreshed)),
		Metadata:    metadata(map[string]any{"refreshed": refreshed, "failed": failed}),
		Status:      entities.ActivityStatusSuccess,
	}

	if len(failed) > 0 {
		langs := make([]string, 0, len(failed))
		for lang, msg := range failed {
			langs = append(langs, fmt.Sprintf("%s: %s", lang, msg))
		}
		sort.Strings(langs)
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = truncate(strings.Join(langs, "; "), maxErrorLen)
	}

	s.LogAsync(event)
}

// SettingsChanged records a change of a maintenance setting.
func (s *Service) SettingsChanged(action, description string) {
	s.LogAsync(&entities.ActivityEvent{
		EventType:   entities.ActivityEventSettings,
		Action:      action,
		Description: description,
		Status:      entities.ActivityStatusSuccess,
	})
}

// GetEvents retrieves paginated events, optionally filtered by type.
func (s *Service) GetEvents(eventType entities.ActivityEventType, limit, offset int) ([]entities.ActivityEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// GetLanguageEvents retrieves the latest events of one language.
func (s *Service) GetLanguageEvents(language entities.ContentLanguage, limit int) ([]entities.ActivityEvent, error) {
	return s.repo.GetLanguageEvents(language, limit)
}

// DeleteOldEvents removes events older than the retention period.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func finish(event *entities.ActivityEvent, err error) {
	event.Status = entities.ActivityStatusSuccess
	if err != nil {
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxErrorLen)
	}
}

func metadata(fields map[string]any) string {
	b, err := json.Marshal(fields)
	if err != nil {
		return ""
	}
	return string(b)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

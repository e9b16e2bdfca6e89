package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// LanguageClearer removes a downloaded language from the local cache.
type LanguageClearer interface {
	ClearLanguage(ctx context.Context, language entities.ContentLanguage) (int, error)
}

// ClearLanguageTask removes the cached stotras of one language.
type ClearLanguageTask struct {
	Language entities.ContentLanguage `json:"language"`
}

// Config returns the queue configuration for clear tasks.
func (t ClearLanguageTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "clear_language",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ClearLanguageProcessor creates a processor function for ClearLanguageTask.
func ClearLanguageProcessor(clearer LanguageClearer) backlite.QueueProcessor[ClearLanguageTask] {
	return func(ctx context.Context, task ClearLanguageTask) error {
		if clearer == nil {
			return fmt.Errorf("language clearer not configured")
		}

		deleted, err := clearer.ClearLanguage(ctx, task.Language)
		if err != nil {
			return fmt.Errorf("clear %s: %w", task.Language, err)
		}

		log.WithFields(log.Fields{"language": task.Language, "deleted": deleted}).Info("Cleared language content")
		return nil
	}
}

// NewClearLanguageQueue creates a backlite queue for clear tasks.
func NewClearLanguageQueue(clearer LanguageClearer) backlite.Queue {
	return backlite.NewQueue(ClearLanguageProcessor(clearer))
}

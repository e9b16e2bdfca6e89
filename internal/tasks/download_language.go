package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/offline"
)

// LanguageDownloader downloads a content language into the local cache.
type LanguageDownloader interface {
	DownloadLanguage(ctx context.Context, language entities.ContentLanguage, onProgress func(offline.Progress)) error
}

// DownloadLanguageTask downloads every stotra of one language.
type DownloadLanguageTask struct {
	Language entities.ContentLanguage `json:"language"`
}

// Config returns the queue configuration for language downloads.
// A download that finds another one running fails and is retried after the backoff.
func (t DownloadLanguageTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_language",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DownloadLanguageProcessor creates a processor function for DownloadLanguageTask.
func DownloadLanguageProcessor(downloader LanguageDownloader) backlite.QueueProcessor[DownloadLanguageTask] {
	return func(ctx context.Context, task DownloadLanguageTask) error {
		if downloader == nil {
			return fmt.Errorf("language downloader not configured")
		}

		var last offline.Progress
		err := downloader.DownloadLanguage(ctx, task.Language, func(p offline.Progress) {
			last = p
		})
		if err != nil {
			return fmt.Errorf("download %s: %w", task.Language, err)
		}

		log.WithFields(log.Fields{
			"language": task.Language,
			"stotras":  last.Downloaded,
			"run_id":   last.RunID,
		}).Info("Language download task completed")
		return nil
	}
}

// NewDownloadLanguageQueue creates a backlite queue for language downloads.
func NewDownloadLanguageQueue(downloader LanguageDownloader) backlite.Queue {
	return backlite.NewQueue(DownloadLanguageProcessor(downloader))
}

package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/offline"
)

// Refresher re-downloads every downloaded language.
type Refresher interface {
	RefreshDownloaded(ctx context.Context) (offline.RefreshResult, error)
}

// RefreshDownloadedTask refreshes all downloaded languages from the catalog.
// Runs languages sequentially; one download runs at a time.
type RefreshDownloadedTask struct{}

// Config returns the queue configuration for refresh tasks.
func (t RefreshDownloadedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_downloaded",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     60 * time.Minute, // Allow time to process every language
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshDownloadedProcessor creates a processor function for RefreshDownloadedTask.
func RefreshDownloadedProcessor(refresher Refresher) backlite.QueueProcessor[RefreshDownloadedTask] {
	return func(ctx context.Context, task RefreshDownloadedTask) error {
		if refresher == nil {
			return fmt.Errorf("refresher not configured")
		}

		result, err := refresher.RefreshDownloaded(ctx)
		if err != nil {
			return fmt.Errorf("refresh downloaded languages: %w", err)
		}

		log.WithFields(log.Fields{
			"refreshed": len(result.Refreshed),
			"failed":    len(result.Failed),
		}).Info("Refresh complete")
		return nil
	}
}

// NewRefreshDownloadedQueue creates a backlite queue for refresh tasks.
func NewRefreshDownloadedQueue(refresher Refresher) backlite.Queue {
	return backlite.NewQueue(RefreshDownloadedProcessor(refresher))
}

package http

import (
	"github.com/bhaktivani/bhaktivani/internal/preferences"
)

// ContentService is everything the API needs from the offline manager.
type ContentService interface {
	StotraService
	DownloadService
}

// TaskClient enqueues tasks and reports their status.
type TaskClient interface {
	TaskEnqueuer
	TaskStatusReader
}

// ActivityService reads the maintenance log and records API settings changes.
type ActivityService interface {
	ActivityLog
	SettingsActivity
}

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Content     ContentService
	Preferences *preferences.Store

	// Download run progress and per-item queue (optional)
	Runs  RunStore
	Queue QueueReader

	// Task queue client (optional). Without it downloads run inline.
	TaskClient TaskClient

	// Periodic refresh (optional)
	Refresh  RefreshScheduler
	Settings SettingsWriter

	// Content maintenance log (optional)
	Activity ActivityService

	// Health checks by name
	HealthChecks map[string]Pinger

	// Application info
	Version string
}

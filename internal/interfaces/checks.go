package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/bhaktivani/bhaktivani/internal/activity"
	"github.com/bhaktivani/bhaktivani/internal/catalog"
	"github.com/bhaktivani/bhaktivani/internal/database"
	"github.com/bhaktivani/bhaktivani/internal/database/downloads"
	"github.com/bhaktivani/bhaktivani/internal/database/settings"
	"github.com/bhaktivani/bhaktivani/internal/database/stotras"
	"github.com/bhaktivani/bhaktivani/internal/http"
	"github.com/bhaktivani/bhaktivani/internal/kvstore"
	"github.com/bhaktivani/bhaktivani/internal/offline"
	"github.com/bhaktivani/bhaktivani/internal/repository"
	"github.com/bhaktivani/bhaktivani/internal/scheduler"
	"github.com/bhaktivani/bhaktivani/internal/tasks"
)

// =============================================================================
// Storage
// =============================================================================

// ContentStore implementations
var _ repository.ContentStore = (*stotras.Repository)(nil)
var _ repository.ContentStore = (*repository.KVRepository)(nil)

// DownloadTracker implementations
var _ repository.DownloadTracker = (*downloads.Repository)(nil)
var _ repository.DownloadTracker = (*repository.KVRepository)(nil)

// Key-value backends
var _ kvstore.Store = (*kvstore.Memory)(nil)
var _ kvstore.Store = (*kvstore.SQLite)(nil)
var _ kvstore.Store = (*kvstore.Bolt)(nil)
var _ kvstore.Pinger = (*kvstore.SQLite)(nil)
var _ kvstore.Pinger = (*kvstore.Bolt)(nil)

// Health checks
var _ offline.Pinger = (*stotras.Repository)(nil)
var _ offline.Pinger = (*repository.KVRepository)(nil)
var _ http.Pinger = (*database.Database)(nil)
var _ http.Pinger = (*offline.Manager)(nil)

// =============================================================================
// Catalog
// =============================================================================

var _ catalog.Source = (*catalog.Bundled)(nil)
var _ catalog.Source = (*catalog.Static)(nil)
var _ catalog.Source = (*catalog.Remote)(nil)

// =============================================================================
// Progress Tracking
// =============================================================================

var _ offline.ProgressReporter = (*downloads.RunRepository)(nil)
var _ offline.DownloadQueue = (*downloads.Repository)(nil)
var _ http.RunStore = (*downloads.RunRepository)(nil)
var _ offline.ActivityRecorder = (*activity.Service)(nil)
var _ http.ActivityService = (*activity.Service)(nil)
var _ http.QueueReader = (*downloads.Repository)(nil)

// =============================================================================
// Services
// =============================================================================

var _ http.ContentService = (*offline.Manager)(nil)
var _ http.DownloadStateReader = (*offline.Manager)(nil)
var _ tasks.LanguageDownloader = (*offline.Manager)(nil)
var _ tasks.LanguageClearer = (*offline.Manager)(nil)
var _ tasks.Refresher = (*offline.Manager)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskClient = (*tasks.Client)(nil)
var _ http.RefreshScheduler = (*scheduler.RefreshScheduler)(nil)
var _ http.SettingsWriter = (*settings.Repository)(nil)
var _ scheduler.SettingsStore = (*settings.Repository)(nil)

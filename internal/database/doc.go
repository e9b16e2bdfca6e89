// Package database provides the SQL persistence layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, settings seeding
//	├── stotras/         # Cached stotras and reader state (repository.ContentStore)
//	├── downloads/       # Language download state, download queue, run progress
//	├── settings/        # Application settings
//	└── activity/        # Content maintenance log
//
// The kv_entries table is owned by kvstore.SQLite, which stores reader
// preferences (and, with STORAGE_BACKEND=kv-sqlite, the content cache itself).
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase("./data/bhaktivani.db")
//
//	stotrasRepo := stotras.NewRepository(db.DB)
//	downloadsRepo := downloads.NewRepository(db.DB)
//
//	s, err := stotrasRepo.GetStotraByID(ctx, "hanuman-chalisa-telugu")
//
// # Interface Implementations
//
//   - stotras.Repository: implements repository.ContentStore
//   - downloads.Repository: implements repository.DownloadTracker and offline.DownloadQueue
//   - downloads.RunRepository: implements offline.ProgressReporter
//   - settings.Repository: implements scheduler.SettingsStore
package database

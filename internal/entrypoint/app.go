package entrypoint

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/activity"
	"github.com/bhaktivani/bhaktivani/internal/catalog"
	"github.com/bhaktivani/bhaktivani/internal/config"
	"github.com/bhaktivani/bhaktivani/internal/database"
	activityRepo "github.com/bhaktivani/bhaktivani/internal/database/activity"
	"github.com/bhaktivani/bhaktivani/internal/database/downloads"
	"github.com/bhaktivani/bhaktivani/internal/database/settings"
	"github.com/bhaktivani/bhaktivani/internal/database/stotras"
	"github.com/bhaktivani/bhaktivani/internal/kvstore"
	"github.com/bhaktivani/bhaktivani/internal/offline"
	"github.com/bhaktivani/bhaktivani/internal/preferences"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

// App holds the storage and services shared by the server and the CLI.
type App struct {
	Config *config.Config

	DB          *database.Database
	KV          kvstore.Store
	Content     repository.ContentStore
	Tracker     repository.DownloadTracker
	Queue       *downloads.Repository
	Runs        *downloads.RunRepository
	Settings    *settings.Repository
	Activity    *activity.Service
	Manager     *offline.Manager
	Preferences *preferences.Store
}

// NewApp opens the storage selected by cfg and wires the offline manager.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := &App{
		Config:   cfg,
		DB:       db,
		Queue:    downloads.NewRepository(db.DB),
		Runs:     downloads.NewRunRepository(db.DB, cfg.Download.StaleAfter),
		Settings: settings.NewRepository(db.DB),
		Activity: activity.NewService(activityRepo.NewRepository(db.DB)),
	}

	if err := app.openContentStore(); err != nil {
		app.Close()
		return nil, err
	}

	if n, err := app.Runs.FailStaleRuns(); err != nil {
		log.WithError(err).Warn("Failed to clean up stale download runs")
	} else if n > 0 {
		log.WithField("runs", n).Info("Marked interrupted download runs as failed")
	}

	if cfg.Activity.Retention > 0 {
		if n, err := app.Activity.DeleteOldEvents(cfg.Activity.Retention); err != nil {
			log.WithError(err).Warn("Failed to prune activity log")
		} else if n > 0 {
			log.WithField("events", n).Info("Pruned old activity events")
		}
	}

	bundled := catalog.NewBundled()
	var source catalog.Source = bundled
	if cfg.Catalog.URL != "" {
		remote := catalog.NewRemote(cfg.Catalog.URL)
		if cfg.Catalog.TTL > 0 {
			remote.TTL = cfg.Catalog.TTL
		}
		source = remote
		log.WithField("url", cfg.Catalog.URL).Info("Using remote catalog")
	}

	app.Manager = offline.NewManager(app.Content, app.Tracker, source,
		offline.WithFallback(bundled),
		offline.WithItemDelay(cfg.Download.ItemDelay),
		offline.WithProgressReporter(app.Runs),
		offline.WithDownloadQueue(app.Queue),
		offline.WithActivityRecorder(app.Activity),
	)
	if err := app.Manager.Init(ctx); err != nil {
		app.Close()
		return nil, err
	}

	prefs, err := preferences.Open(ctx, preferences.NewPersister(app.KV, preferences.DefaultKey))
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	app.Preferences = prefs

	return app, nil
}

// openContentStore selects the stotra and download storage. Preferences
// always live in the key-value store of the same backend.
func (a *App) openContentStore() error {
	backend := a.Config.Storage.Backend
	logger := log.WithField("backend", backend)

	switch backend {
	case config.StorageSQL, "":
		kv, err := kvstore.NewSQLite(a.DB.DB)
		if err != nil {
			return err
		}
		a.KV = kv
		a.Content = stotras.NewRepository(a.DB.DB)
		a.Tracker = a.Queue
	case config.StorageKVSQLite:
		kv, err := kvstore.NewSQLite(a.DB.DB)
		if err != nil {
			return err
		}
		a.useKV(kv)
	case config.StorageBolt:
		kv, err := kvstore.OpenBolt(a.Config.Storage.BoltPath)
		if err != nil {
			return fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger = logger.WithField("path", a.Config.Storage.BoltPath)
		a.useKV(kv)
	case config.StorageMemory:
		a.useKV(kvstore.NewMemory())
	default:
		return fmt.Errorf("unsupported storage backend %q", backend)
	}

	logger.Info("Content storage initialized")
	return nil
}

func (a *App) useKV(kv kvstore.Store) {
	repo := repository.NewKVRepository(kv)
	a.KV = kv
	a.Content = repo
	a.Tracker = repo
}

// Close waits for pending activity writes, then releases the key-value
// store and the database.
func (a *App) Close() error {
	if a.Activity != nil {
		a.Activity.Flush()
	}

	var errs []error
	if a.KV != nil {
		if err := a.KV.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close kv store: %w", err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

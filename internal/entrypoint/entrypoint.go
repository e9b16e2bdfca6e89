package entrypoint

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/config"
	http_controllers "github.com/bhaktivani/bhaktivani/internal/http"
	"github.com/bhaktivani/bhaktivani/internal/scheduler"
	"github.com/bhaktivani/bhaktivani/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Listen failed")
		}
	}()

	// Wait for SIGINT or SIGTERM, then shut down within the timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.WithField("timeout", timeout).Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	log.Info("Server exiting")
}

func Run(cfg *config.Config, version string) error {
	log.WithField("version", version).Info("Starting BhaktiVani")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.WithError(err).Error("Error closing storage")
		}
	}()

	if cfg.Seed.OnStart {
		if n, err := app.Manager.SeedIfEmpty(ctx); err != nil {
			log.WithError(err).Warn("Initial content seed failed")
		} else if n > 0 {
			log.WithField("stotras", n).Info("Seeded offline content")
		}
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Enabled:         true,
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.WithError(err).Error("Error closing task client")
			}
		}()

		taskClient.Register(
			tasks.NewDownloadLanguageQueue(app.Manager),
			tasks.NewClearLanguageQueue(app.Manager),
			tasks.NewRefreshDownloadedQueue(app.Manager),
		)
		go taskClient.Start(ctx)
	}

	refresh := scheduler.InlineRefresh(app.Manager)
	if taskClient != nil {
		refresh = scheduler.EnqueueRefresh(taskClient)
	}
	refreshScheduler := scheduler.NewRefreshScheduler(app.Settings, refresh, scheduler.Config{
		Enabled:  cfg.Refresh.Enabled,
		Schedule: cfg.Refresh.Schedule,
	})
	if err := refreshScheduler.Start(ctx); err != nil {
		log.WithError(err).Warn("Refresh scheduler not started")
	}

	routerCfg := http_controllers.RouterConfig{
		Content:     app.Manager,
		Preferences: app.Preferences,
		Runs:        app.Runs,
		Queue:       app.Queue,
		Refresh:     refreshScheduler,
		Settings:    app.Settings,
		Activity:    app.Activity,
		HealthChecks: map[string]http_controllers.Pinger{
			"database": app.DB,
			"content":  app.Manager,
		},
		Version: version,
	}
	if taskClient != nil {
		routerCfg.TaskClient = taskClient
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		refreshScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		cancel()
	}

	Serve(router, cfg, onShutdown)
	return nil
}

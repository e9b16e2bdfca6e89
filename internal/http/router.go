package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	var taskClient TaskEnqueuer
	if cfg.TaskClient != nil {
		taskClient = cfg.TaskClient
	}

	health := NewHealthController(cfg.HealthChecks, cfg.Version)
	languages := NewLanguagesController(cfg.Content)
	stotras := NewStotrasController(cfg.Content)
	downloads := NewDownloadsController(cfg.Content, cfg.Runs, cfg.Queue, taskClient)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	api := router.Group("/api")

	// Catalog metadata
	api.GET("/languages", languages.ListLanguages)
	api.GET("/categories", languages.ListCategories)

	// Stotra listings per language
	lang := api.Group("/languages/:language")
	lang.GET("/stotras", stotras.ListStotras)
	lang.GET("/stotras/grouped", stotras.GroupedStotras)
	lang.GET("/stotras/favorites", stotras.FavoriteStotras)
	lang.GET("/stotras/search", stotras.SearchStotras)
	lang.GET("/stotras/recent", stotras.RecentlyRead)
	lang.GET("/stats", stotras.LanguageStats)

	// Offline downloads
	lang.POST("/download", downloads.StartDownload)
	lang.GET("/download", downloads.DownloadStatus)
	lang.DELETE("/download", downloads.ClearDownload)
	api.GET("/downloads/status", downloads.RunsStatus)

	// Single stotra and reader state
	api.GET("/stotras/:id", stotras.GetStotra)
	api.POST("/stotras/:id/favorite", stotras.ToggleFavorite)
	api.PUT("/stotras/:id/progress", stotras.UpdateProgress)

	// Preferences
	if cfg.Preferences != nil {
		prefs := NewPreferencesController(cfg.Preferences)
		api.GET("/preferences", prefs.GetPreferences)
		api.PATCH("/preferences", prefs.UpdatePreferences)
		api.POST("/preferences/reset", prefs.ResetPreferences)
	}

	// Task status
	if cfg.TaskClient != nil {
		tasksController := NewTasksController(cfg.TaskClient)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	// Maintenance log
	var settingsActivity SettingsActivity
	if cfg.Activity != nil {
		settingsActivity = cfg.Activity
		activity := NewActivityController(cfg.Activity)
		api.GET("/activity", activity.ListEvents)
		lang.GET("/activity", activity.LanguageEvents)
	}

	// Periodic refresh
	if cfg.Refresh != nil && cfg.Settings != nil {
		refresh := NewRefreshController(cfg.Refresh, cfg.Settings, settingsActivity)
		api.GET("/refresh", refresh.GetStatus)
		api.PUT("/refresh", refresh.UpdateSettings)
		api.POST("/refresh/run", refresh.RunNow)
	}

	return router
}

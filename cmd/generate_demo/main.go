// Command generate_demo creates a demo database with the bundled catalog and
// some reader state: favorites, partly read stotras and customised preferences.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"context"
	"flag"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/config"
	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/entrypoint"
	"github.com/bhaktivani/bhaktivani/internal/preferences"
)

const defaultDemoDatabasePath = "./demo/demo.db"

type readingState struct {
	ID       string
	Favorite bool
	Progress float64
}

// demoReading is applied after the catalog is downloaded.
var demoReading = []readingState{
	{ID: "hanuman-chalisa-telugu", Favorite: true, Progress: 100},
	{ID: "aditya-hrudayam-telugu", Progress: 45},
	{ID: "shiva-tandava-stotram-sanskrit", Favorite: true, Progress: 70},
	{ID: "gayatri-mantra-sanskrit", Progress: 100},
	{ID: "ganesha-pancharatnam-kannada", Favorite: true},
}

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Infof("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	cfg := &config.Config{
		Database: config.Database{Path: *dbPath},
		Storage:  config.Storage{Backend: config.StorageSQL},
		Download: config.Download{StaleAfter: 10 * time.Minute},
	}

	ctx := context.Background()
	app, err := entrypoint.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer app.Close()

	for _, lang := range entities.ContentLanguages {
		if err := app.Manager.DownloadLanguage(ctx, lang.ID, nil); err != nil {
			log.Fatalf("Failed to download %s: %v", lang.ID, err)
		}
		log.Infof("Downloaded: %s", lang.Name)
	}

	for _, r := range demoReading {
		if r.Favorite {
			if _, err := app.Manager.ToggleFavorite(ctx, r.ID); err != nil {
				log.Warnf("Failed to favorite %s: %v", r.ID, err)
			}
		}
		if r.Progress > 0 {
			if _, err := app.Manager.UpdateReadingProgress(ctx, r.ID, r.Progress); err != nil {
				log.Warnf("Failed to set progress on %s: %v", r.ID, err)
			}
		}
	}

	_, err = app.Preferences.Update(ctx, func(s *preferences.State) error {
		s.Reader.Theme = preferences.ThemeSepia
		s.Reader.FontSize = "lg"
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to save preferences: %v", err)
	}

	log.Infof("Demo database created with %d reading states", len(demoReading))
}

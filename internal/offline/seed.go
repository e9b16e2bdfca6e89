package offline

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// SeedIfEmpty stores the whole fallback catalog when the cache holds no
// stotras in any language. It returns the number of stotras stored.
func (m *Manager) SeedIfEmpty(ctx context.Context) (int, error) {
	for _, lang := range entities.ContentLanguages {
		n, err := m.store.CountByLanguage(ctx, lang.ID)
		if err != nil {
			return 0, fmt.Errorf("failed to count %s stotras: %w", lang.ID, err)
		}
		if n > 0 {
			log.WithField("language", lang.ID).Debug("Cache already populated, skipping seed")
			return 0, nil
		}
	}

	stotras, err := m.fallback.Stotras(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load seed catalog: %w", err)
	}
	if err := m.store.StoreStotras(ctx, stotras); err != nil {
		return 0, fmt.Errorf("failed to seed cache: %w", err)
	}
	log.WithField("stotras", len(stotras)).Info("Seeded cache from catalog")
	return len(stotras), nil
}

// Reset deletes every cached stotra, download record and queue entry, then
// seeds again. Like ClearLanguage it holds the download slot throughout.
func (m *Manager) Reset(ctx context.Context) (int, error) {
	if !m.downloading.CompareAndSwap(false, true) {
		return 0, ErrDownloadInProgress
	}
	defer m.downloading.Store(false)

	m.writeMu.Lock()
	deleted, err := m.store.DeleteAll(ctx)
	if err == nil {
		for _, lang := range entities.ContentLanguages {
			if err = m.tracker.ClearLanguageDownload(ctx, lang.ID); err != nil {
				break
			}
		}
	}
	m.writeMu.Unlock()
	if err != nil {
		err = fmt.Errorf("failed to reset cache: %w", err)
		m.activity.CacheReset(0, err)
		return 0, err
	}

	if err := m.queue.ClearQueue(ctx, ""); err != nil {
		log.WithError(err).Warn("Failed to clear download queue")
	}
	log.WithField("deleted", deleted).Info("Cleared cached stotras")
	seeded, err := m.SeedIfEmpty(ctx)
	m.activity.CacheReset(seeded, err)
	return seeded, err
}

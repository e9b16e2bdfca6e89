package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/kvstore"
)

const (
	stotraKeyPrefix   = "stotra_"
	downloadKeyPrefix = "language_download_"
)

func stotraKey(id string) string {
	return stotraKeyPrefix + id
}

func downloadKey(language entities.ContentLanguage) string {
	return downloadKeyPrefix + string(language)
}

// KVRepository stores each stotra and each language download record as a JSON
// value in a kvstore.Store.
type KVRepository struct {
	store kvstore.Store
	now   func() time.Time

	// serialises read-modify-write cycles
	mu sync.Mutex
}

func NewKVRepository(store kvstore.Store) *KVRepository {
	return &KVRepository{store: store, now: time.Now}
}

// Store exposes the underlying key-value store.
func (r *KVRepository) Store() kvstore.Store {
	return r.store
}

func (r *KVRepository) StoreStotra(ctx context.Context, stotra *entities.Stotra) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.put(ctx, stotra)
}

func (r *KVRepository) put(ctx context.Context, stotra *entities.Stotra) error {
	if stotra.ID == "" {
		return errors.New("stotra id is required")
	}
	now := r.now()
	if stotra.CreatedAt.IsZero() {
		stotra.CreatedAt = now
	}
	stotra.UpdatedAt = now
	if err := kvstore.SetJSON(ctx, r.store, stotraKey(stotra.ID), stotra); err != nil {
		return fmt.Errorf("failed to store stotra %s: %w", stotra.ID, err)
	}
	return nil
}

func (r *KVRepository) StoreStotras(ctx context.Context, stotras []entities.Stotra) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range stotras {
		if err := r.put(ctx, &stotras[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *KVRepository) GetStotraByID(ctx context.Context, id string) (*entities.Stotra, error) {
	var s entities.Stotra
	if err := kvstore.GetJSON(ctx, r.store, stotraKey(id), &s); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// all loads every stored stotra, optionally restricted to one language.
func (r *KVRepository) all(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	keys, err := r.store.Keys(ctx, stotraKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list stotra keys: %w", err)
	}

	stotras := make([]entities.Stotra, 0, len(keys))
	for _, key := range keys {
		var s entities.Stotra
		if err := kvstore.GetJSON(ctx, r.store, key, &s); err != nil {
			if errors.Is(err, kvstore.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if language == "" || s.Language == language {
			stotras = append(stotras, s)
		}
	}
	return stotras, nil
}

func (r *KVRepository) GetStotrasByLanguage(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	stotras, err := r.all(ctx, language)
	if err != nil {
		return nil, err
	}
	SortByTitle(stotras)
	return stotras, nil
}

func (r *KVRepository) GetStotrasByCategory(ctx context.Context, language entities.ContentLanguage, category entities.Category) ([]entities.Stotra, error) {
	stotras, err := r.GetStotrasByLanguage(ctx, language)
	if err != nil {
		return nil, err
	}
	return FilterCategory(stotras, category), nil
}

func (r *KVRepository) GetFavoriteStotras(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	stotras, err := r.GetStotrasByLanguage(ctx, language)
	if err != nil {
		return nil, err
	}
	return FilterFavorites(stotras), nil
}

func (r *KVRepository) SearchStotras(ctx context.Context, language entities.ContentLanguage, query string) ([]entities.Stotra, error) {
	stotras, err := r.GetStotrasByLanguage(ctx, language)
	if err != nil {
		return nil, err
	}
	return Filter(stotras, query), nil
}

func (r *KVRepository) GetRecentlyRead(ctx context.Context, language entities.ContentLanguage, limit int) ([]entities.Stotra, error) {
	stotras, err := r.all(ctx, language)
	if err != nil {
		return nil, err
	}
	return RecentlyRead(stotras, limit), nil
}

func (r *KVRepository) UpdateReadingProgress(ctx context.Context, id string, progress float64) (*entities.Stotra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.GetStotraByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := r.now()
	s.ReadingProgress = entities.ClampProgress(progress)
	s.LastReadAt = &now
	if err := r.put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *KVRepository) ToggleFavorite(ctx context.Context, id string) (*entities.Stotra, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, err := r.GetStotraByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.IsFavorite = !s.IsFavorite
	if err := r.put(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *KVRepository) CountByLanguage(ctx context.Context, language entities.ContentLanguage) (int, error) {
	stotras, err := r.all(ctx, language)
	if err != nil {
		return 0, err
	}
	return len(stotras), nil
}

func (r *KVRepository) DeleteLanguage(ctx context.Context, language entities.ContentLanguage) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stotras, err := r.all(ctx, language)
	if err != nil {
		return 0, err
	}
	for _, s := range stotras {
		if err := r.store.Delete(ctx, stotraKey(s.ID)); err != nil {
			return 0, fmt.Errorf("failed to delete stotra %s: %w", s.ID, err)
		}
	}
	return len(stotras), nil
}

func (r *KVRepository) DeleteAll(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	keys, err := r.store.Keys(ctx, stotraKeyPrefix)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			return 0, fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return len(keys), nil
}

func (r *KVRepository) GetLanguageDownload(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error) {
	var d entities.LanguageDownload
	if err := kvstore.GetJSON(ctx, r.store, downloadKey(language), &d); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return EmptyDownload(language), nil
		}
		return nil, err
	}
	return &d, nil
}

func (r *KVRepository) UpdateLanguageDownloadProgress(ctx context.Context, language entities.ContentLanguage, progress float64, total, downloaded int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := entities.LanguageDownload{
		Language:          language,
		Progress:          progress,
		TotalStotras:      total,
		DownloadedStotras: downloaded,
		IsDownloaded:      progress >= 100,
	}
	if prev, err := r.GetLanguageDownload(ctx, language); err == nil {
		d.LastDownloadAt = prev.LastDownloadAt
	}
	if d.IsDownloaded {
		now := r.now()
		d.LastDownloadAt = &now
	}
	return kvstore.SetJSON(ctx, r.store, downloadKey(language), d)
}

func (r *KVRepository) MarkLanguageAsDownloaded(ctx context.Context, language entities.ContentLanguage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, err := r.GetLanguageDownload(ctx, language)
	if err != nil {
		return err
	}
	now := r.now()
	d.IsDownloaded = true
	d.Progress = 100
	d.DownloadedStotras = d.TotalStotras
	d.LastDownloadAt = &now
	return kvstore.SetJSON(ctx, r.store, downloadKey(language), d)
}

func (r *KVRepository) IsLanguageDownloaded(ctx context.Context, language entities.ContentLanguage) (bool, error) {
	d, err := r.GetLanguageDownload(ctx, language)
	if err != nil {
		return false, err
	}
	return d.IsDownloaded, nil
}

func (r *KVRepository) ClearLanguageDownload(ctx context.Context, language entities.ContentLanguage) error {
	return r.store.Delete(ctx, downloadKey(language))
}

// DownloadedLanguages lists the languages whose download completed.
func DownloadedLanguages(ctx context.Context, tracker DownloadTracker) ([]entities.ContentLanguage, error) {
	var out []entities.ContentLanguage
	for _, lang := range entities.ContentLanguages {
		ok, err := tracker.IsLanguageDownloaded(ctx, lang.ID)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, lang.ID)
		}
	}
	return out, nil
}

// Ping verifies the underlying store accepts writes.
func (r *KVRepository) Ping(ctx context.Context) error {
	return kvstore.Probe(ctx, r.store)
}

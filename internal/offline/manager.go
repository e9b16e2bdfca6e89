// Package offline orchestrates language downloads into the local content
// store and resolves stotras across two tiers: the local cache, which holds
// downloaded content and reader state, and the fallback catalog.
package offline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/catalog"
	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

var (
	ErrDownloadInProgress = errors.New("download already in progress")
	ErrNoContent          = errors.New("no stotras available for language")
)

// Source identifies the tier a result was served from.
type Source string

const (
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// Result is a list of stotras together with the tier that produced it.
type Result struct {
	Stotras []entities.Stotra `json:"stotras"`
	Source  Source            `json:"source"`
}

// Pinger is implemented by content stores that can verify their storage.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Manager struct {
	store    repository.ContentStore
	tracker  repository.DownloadTracker
	source   catalog.Source
	fallback catalog.Source
	reporter ProgressReporter
	queue    DownloadQueue
	activity ActivityRecorder

	itemDelay time.Duration
	now       func() time.Time

	downloading atomic.Bool
	current     atomic.Value // entities.ContentLanguage

	// serialises copy-on-write of fallback records into the cache
	writeMu sync.Mutex
}

type Option func(*Manager)

// WithFallback sets the catalog served for languages that are not
// downloaded. It defaults to the download source.
func WithFallback(src catalog.Source) Option {
	return func(m *Manager) { m.fallback = src }
}

// WithItemDelay pauses between stored items during a download.
func WithItemDelay(d time.Duration) Option {
	return func(m *Manager) { m.itemDelay = d }
}

func WithProgressReporter(r ProgressReporter) Option {
	return func(m *Manager) { m.reporter = r }
}

func WithDownloadQueue(q DownloadQueue) Option {
	return func(m *Manager) { m.queue = q }
}

func WithActivityRecorder(r ActivityRecorder) Option {
	return func(m *Manager) { m.activity = r }
}

func NewManager(store repository.ContentStore, tracker repository.DownloadTracker, source catalog.Source, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		tracker:  tracker,
		source:   source,
		fallback: source,
		reporter: noopReporter{},
		queue:    noopQueue{},
		activity: noopActivity{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init verifies the content store is usable and the fallback catalog loads.
func (m *Manager) Init(ctx context.Context) error {
	if p, ok := m.store.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("content store unavailable: %w", err)
		}
	}
	stotras, err := m.fallback.Stotras(ctx)
	if err != nil {
		return fmt.Errorf("fallback catalog unavailable: %w", err)
	}
	log.WithFields(log.Fields{
		"source":   m.source.Name(),
		"fallback": m.fallback.Name(),
		"stotras":  len(stotras),
	}).Info("Offline content manager initialized")
	return nil
}

// Ping checks the content store when it supports it.
func (m *Manager) Ping(ctx context.Context) error {
	if p, ok := m.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Resolve returns a stotra from the cache, or from the fallback catalog when
// the cache does not have it.
func (m *Manager) Resolve(ctx context.Context, id string) (*entities.Stotra, Source, error) {
	s, err := m.store.GetStotraByID(ctx, id)
	if err == nil {
		return s, SourceCache, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.WithError(err).WithField("stotra", id).Warn("Cache lookup failed, using fallback")
	}

	s, err = catalog.ByID(ctx, m.fallback, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, "", repository.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return s, SourceFallback, nil
}

// list serves the cache tier when language is downloaded and the fallback tier
// otherwise. fromCache queries the store directly; filter derives the same
// view from a full fallback list.
func (m *Manager) list(
	ctx context.Context,
	language entities.ContentLanguage,
	fromCache func() ([]entities.Stotra, error),
	filter func([]entities.Stotra) []entities.Stotra,
) (Result, error) {
	if !language.Valid() {
		return Result{}, fmt.Errorf("%w: %q", entities.ErrUnknownLanguage, language)
	}

	logger := log.WithField("language", language)
	downloaded, err := m.tracker.IsLanguageDownloaded(ctx, language)
	if err != nil {
		logger.WithError(err).Warn("Failed to read download state, using fallback")
	} else if downloaded {
		stotras, err := fromCache()
		if err == nil {
			return Result{Stotras: stotras, Source: SourceCache}, nil
		}
		logger.WithError(err).Warn("Failed to read cached stotras, using fallback")
	}

	stotras, err := m.fallbackStotras(ctx, language)
	if err != nil {
		return Result{}, err
	}
	return Result{Stotras: filter(stotras), Source: SourceFallback}, nil
}

// fallbackStotras returns the fallback records of a language with any reader
// state already copied into the cache applied on top.
func (m *Manager) fallbackStotras(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	stotras, err := catalog.ByLanguage(ctx, m.fallback, language)
	if err != nil {
		return nil, fmt.Errorf("failed to load fallback stotras: %w", err)
	}

	cached, err := m.store.GetStotrasByLanguage(ctx, language)
	if err != nil {
		log.WithError(err).WithField("language", language).Warn("Failed to read reader state from cache")
		cached = nil
	}
	if len(cached) > 0 {
		state := make(map[string]entities.UserState, len(cached))
		for _, c := range cached {
			state[c.ID] = c.UserState()
		}
		for i := range stotras {
			if st, ok := state[stotras[i].ID]; ok {
				stotras[i].ApplyUserState(st)
			}
		}
	}

	repository.SortByTitle(stotras)
	return stotras, nil
}

func identity(s []entities.Stotra) []entities.Stotra { return s }

func (m *Manager) StotrasByLanguage(ctx context.Context, language entities.ContentLanguage) (Result, error) {
	return m.list(ctx, language,
		func() ([]entities.Stotra, error) { return m.store.GetStotrasByLanguage(ctx, language) },
		identity)
}

func (m *Manager) StotrasByCategory(ctx context.Context, language entities.ContentLanguage, category entities.Category) (Result, error) {
	if !category.Valid() {
		return Result{}, fmt.Errorf("%w: %q", entities.ErrUnknownCategory, category)
	}
	return m.list(ctx, language,
		func() ([]entities.Stotra, error) { return m.store.GetStotrasByCategory(ctx, language, category) },
		func(s []entities.Stotra) []entities.Stotra { return repository.FilterCategory(s, category) })
}

func (m *Manager) FavoriteStotras(ctx context.Context, language entities.ContentLanguage) (Result, error) {
	return m.list(ctx, language,
		func() ([]entities.Stotra, error) { return m.store.GetFavoriteStotras(ctx, language) },
		repository.FilterFavorites)
}

func (m *Manager) SearchStotras(ctx context.Context, language entities.ContentLanguage, query string) (Result, error) {
	return m.list(ctx, language,
		func() ([]entities.Stotra, error) { return m.store.SearchStotras(ctx, language, query) },
		func(s []entities.Stotra) []entities.Stotra { return repository.Filter(s, query) })
}

func (m *Manager) RecentlyRead(ctx context.Context, language entities.ContentLanguage, limit int) (Result, error) {
	return m.list(ctx, language,
		func() ([]entities.Stotra, error) { return m.store.GetRecentlyRead(ctx, language, limit) },
		func(s []entities.Stotra) []entities.Stotra { return repository.RecentlyRead(s, limit) })
}

// GroupedByCategory buckets the language's stotras by category.
func (m *Manager) GroupedByCategory(ctx context.Context, language entities.ContentLanguage) (map[entities.Category][]entities.Stotra, Source, error) {
	res, err := m.StotrasByLanguage(ctx, language)
	if err != nil {
		return nil, "", err
	}
	return repository.GroupByCategory(res.Stotras), res.Source, nil
}

func (m *Manager) LanguageStats(ctx context.Context, language entities.ContentLanguage) (entities.LanguageStats, Source, error) {
	res, err := m.StotrasByLanguage(ctx, language)
	if err != nil {
		return entities.LanguageStats{}, "", err
	}
	return repository.ComputeStats(res.Stotras), res.Source, nil
}

// ToggleFavorite flips the favorite flag. A stotra only present in the
// fallback catalog is copied into the cache first; the catalog itself is
// never modified.
func (m *Manager) ToggleFavorite(ctx context.Context, id string) (*entities.Stotra, error) {
	return m.mutate(ctx, id,
		func() (*entities.Stotra, error) { return m.store.ToggleFavorite(ctx, id) },
		func(s *entities.Stotra) { s.IsFavorite = !s.IsFavorite })
}

// UpdateReadingProgress records progress, clamped to [0, 100], with the same
// copy-on-write rule as ToggleFavorite.
func (m *Manager) UpdateReadingProgress(ctx context.Context, id string, progress float64) (*entities.Stotra, error) {
	return m.mutate(ctx, id,
		func() (*entities.Stotra, error) { return m.store.UpdateReadingProgress(ctx, id, progress) },
		func(s *entities.Stotra) {
			now := m.now()
			s.ReadingProgress = entities.ClampProgress(progress)
			s.LastReadAt = &now
		})
}

func (m *Manager) mutate(
	ctx context.Context,
	id string,
	inCache func() (*entities.Stotra, error),
	apply func(*entities.Stotra),
) (*entities.Stotra, error) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	s, err := inCache()
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	s, err = catalog.ByID(ctx, m.fallback, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	apply(s)
	if err := m.store.StoreStotra(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to copy stotra %s into cache: %w", id, err)
	}
	log.WithField("stotra", id).Debug("Copied fallback stotra into cache")
	return s, nil
}

func (m *Manager) DownloadProgress(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error) {
	if !language.Valid() {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownLanguage, language)
	}
	return m.tracker.GetLanguageDownload(ctx, language)
}

func (m *Manager) IsLanguageDownloaded(ctx context.Context, language entities.ContentLanguage) (bool, error) {
	return m.tracker.IsLanguageDownloaded(ctx, language)
}

// IsDownloadInProgress reports whether a download, clear or reset currently
// holds the download slot.
func (m *Manager) IsDownloadInProgress() bool {
	return m.downloading.Load()
}

// CurrentDownload returns the language being downloaded, if any.
func (m *Manager) CurrentDownload() (entities.ContentLanguage, bool) {
	if !m.downloading.Load() {
		return "", false
	}
	lang, _ := m.current.Load().(entities.ContentLanguage)
	return lang, lang != ""
}

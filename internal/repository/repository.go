// Package repository defines the content repository contracts and the
// key-value implementation of them.
//
// # Interface Implementation
//
//	var _ ContentStore = (*KVRepository)(nil)
//	var _ DownloadTracker = (*KVRepository)(nil)
//
// The SQL implementations live in internal/database/stotras and
// internal/database/downloads.
package repository

import (
	"context"
	"errors"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// ErrNotFound is returned when a stotra does not exist in the store.
var ErrNotFound = errors.New("stotra not found")

// ContentStore is the CRUD surface of a stotra storage tier.
type ContentStore interface {
	StoreStotra(ctx context.Context, stotra *entities.Stotra) error
	StoreStotras(ctx context.Context, stotras []entities.Stotra) error
	GetStotraByID(ctx context.Context, id string) (*entities.Stotra, error)
	GetStotrasByLanguage(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error)
	GetStotrasByCategory(ctx context.Context, language entities.ContentLanguage, category entities.Category) ([]entities.Stotra, error)
	GetFavoriteStotras(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error)
	SearchStotras(ctx context.Context, language entities.ContentLanguage, query string) ([]entities.Stotra, error)
	GetRecentlyRead(ctx context.Context, language entities.ContentLanguage, limit int) ([]entities.Stotra, error)
	// UpdateReadingProgress clamps progress to [0, 100] and stamps LastReadAt.
	UpdateReadingProgress(ctx context.Context, id string, progress float64) (*entities.Stotra, error)
	// ToggleFavorite flips the favorite flag and returns the updated record.
	ToggleFavorite(ctx context.Context, id string) (*entities.Stotra, error)
	CountByLanguage(ctx context.Context, language entities.ContentLanguage) (int, error)
	DeleteLanguage(ctx context.Context, language entities.ContentLanguage) (int, error)
	DeleteAll(ctx context.Context) (int, error)
}

// DownloadTracker persists per-language download state.
type DownloadTracker interface {
	GetLanguageDownload(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error)
	// UpdateLanguageDownloadProgress records progress; the language counts as
	// downloaded exactly when progress reaches 100.
	UpdateLanguageDownloadProgress(ctx context.Context, language entities.ContentLanguage, progress float64, total, downloaded int) error
	MarkLanguageAsDownloaded(ctx context.Context, language entities.ContentLanguage) error
	IsLanguageDownloaded(ctx context.Context, language entities.ContentLanguage) (bool, error)
	ClearLanguageDownload(ctx context.Context, language entities.ContentLanguage) error
}

// EmptyDownload is the state of a language that was never downloaded.
func EmptyDownload(language entities.ContentLanguage) *entities.LanguageDownload {
	return &entities.LanguageDownload{Language: language}
}

// Package stotras provides database operations for the cached stotra content
// and the reader state stored alongside it.
//
// # Interface Implementation
//
//	var _ repository.ContentStore = (*Repository)(nil)
//
// # Usage
//
//	repo := stotras.NewRepository(db)
//	list, err := repo.GetStotrasByLanguage(ctx, entities.LanguageTelugu)
package stotras

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

// Repository handles all stotra database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new stotras repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// columns rewritten when a stotra is stored again; created_at is kept.
var upsertColumns = []string{
	"title", "native_title", "language", "category", "author", "description", "content",
	"is_favorite", "reading_progress", "estimated_reading_time", "last_read_at",
	"updated_at", "search_key",
}

func (r *Repository) StoreStotra(ctx context.Context, stotra *entities.Stotra) error {
	if stotra.ID == "" {
		return errors.New("stotra id is required")
	}
	stotra.SearchKey = repository.SearchKey(stotra)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).
		Create(stotra).Error
}

// StoreStotras stores all stotras in one transaction.
func (r *Repository) StoreStotras(ctx context.Context, stotras []entities.Stotra) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &Repository{db: tx}
		for i := range stotras {
			if err := txRepo.StoreStotra(ctx, &stotras[i]); err != nil {
				return fmt.Errorf("failed to store stotra %s: %w", stotras[i].ID, err)
			}
		}
		return nil
	})
}

func (r *Repository) GetStotraByID(ctx context.Context, id string) (*entities.Stotra, error) {
	var stotra entities.Stotra
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stotra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stotra, nil
}

func (r *Repository) byLanguage(ctx context.Context, language entities.ContentLanguage) *gorm.DB {
	return r.db.WithContext(ctx).Where("language = ?", language).Order("title ASC, id ASC")
}

// GetStotrasByLanguage returns the stotras of a language sorted by title.
func (r *Repository) GetStotrasByLanguage(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	var stotras []entities.Stotra
	err := r.byLanguage(ctx, language).Find(&stotras).Error
	return stotras, err
}

func (r *Repository) GetStotrasByCategory(ctx context.Context, language entities.ContentLanguage, category entities.Category) ([]entities.Stotra, error) {
	var stotras []entities.Stotra
	err := r.byLanguage(ctx, language).Where("category = ?", category).Find(&stotras).Error
	return stotras, err
}

func (r *Repository) GetFavoriteStotras(ctx context.Context, language entities.ContentLanguage) ([]entities.Stotra, error) {
	var stotras []entities.Stotra
	err := r.byLanguage(ctx, language).Where("is_favorite = ?", true).Find(&stotras).Error
	return stotras, err
}

// SearchStotras matches the folded query against the stored search key.
func (r *Repository) SearchStotras(ctx context.Context, language entities.ContentLanguage, query string) ([]entities.Stotra, error) {
	q := repository.Fold(strings.TrimSpace(query))
	if q == "" {
		return r.GetStotrasByLanguage(ctx, language)
	}

	var stotras []entities.Stotra
	err := r.byLanguage(ctx, language).
		Where(`search_key LIKE ? ESCAPE '\'`, "%"+escapeLike(q)+"%").
		Find(&stotras).Error
	return stotras, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *Repository) GetRecentlyRead(ctx context.Context, language entities.ContentLanguage, limit int) ([]entities.Stotra, error) {
	var stotras []entities.Stotra
	query := r.db.WithContext(ctx).
		Where("language = ? AND last_read_at IS NOT NULL", language).
		Order("last_read_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&stotras).Error
	return stotras, err
}

// UpdateReadingProgress clamps progress to [0, 100] and stamps last_read_at.
func (r *Repository) UpdateReadingProgress(ctx context.Context, id string, progress float64) (*entities.Stotra, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&entities.Stotra{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"reading_progress": entities.ClampProgress(progress),
			"last_read_at":     now,
			"updated_at":       now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetStotraByID(ctx, id)
}

func (r *Repository) ToggleFavorite(ctx context.Context, id string) (*entities.Stotra, error) {
	result := r.db.WithContext(ctx).Model(&entities.Stotra{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"is_favorite": gorm.Expr("NOT is_favorite"),
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrNotFound
	}
	return r.GetStotraByID(ctx, id)
}

func (r *Repository) CountByLanguage(ctx context.Context, language entities.ContentLanguage) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Stotra{}).Where("language = ?", language).Count(&count).Error
	return int(count), err
}

func (r *Repository) DeleteLanguage(ctx context.Context, language entities.ContentLanguage) (int, error) {
	result := r.db.WithContext(ctx).Where("language = ?", language).Delete(&entities.Stotra{})
	return int(result.RowsAffected), result.Error
}

func (r *Repository) DeleteAll(ctx context.Context) (int, error) {
	result := r.db.WithContext(ctx).Where("1 = 1").Delete(&entities.Stotra{})
	return int(result.RowsAffected), result.Error
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

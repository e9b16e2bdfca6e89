package stotras

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "test_stotras.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Stotra{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return repo, cleanup
}

func seed(t *testing.T, repo *Repository) {
	t.Helper()
	err := repo.StoreStotras(context.Background(), []entities.Stotra{
		{ID: "shiva-tandava", Title: "Shiva Tandava Stotram", NativeTitle: "शिवताण्डवस्तोत्रम्", Language: entities.LanguageSanskrit, Category: entities.CategoryStotra, Description: "Cosmic dance of Shiva", EstimatedReadingTime: 12},
		{ID: "gayatri", Title: "Gayatri Mantra", NativeTitle: "गायत्री मन्त्रः", Language: entities.LanguageSanskrit, Category: entities.CategoryMantra, Description: "Vedic mantra", EstimatedReadingTime: 2},
		{ID: "odd_name", Title: "100% Devotion", Language: entities.LanguageSanskrit, Category: entities.CategoryBhakti, Description: "under_score"},
		{ID: "hanuman", Title: "Hanuman Chalisa", NativeTitle: "హనుమాన్ చాలీసా", Language: entities.LanguageTelugu, Category: entities.CategoryBhakti},
	})
	require.NoError(t, err)
}

func TestRepository_StoreAndGet(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	s, err := repo.GetStotraByID(ctx, "gayatri")
	require.NoError(t, err)
	assert.Equal(t, "Gayatri Mantra", s.Title)
	assert.Equal(t, entities.CategoryMantra, s.Category)
	assert.NotEmpty(t, s.SearchKey)

	_, err = repo.GetStotraByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_StoreStotra_Upsert(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	seed(t, repo)

	original, err := repo.GetStotraByID(ctx, "gayatri")
	require.NoError(t, err)

	updated := *original
	updated.Title = "Gayatri Mantra (Rigveda)"
	updated.IsFavorite = true
	require.NoError(t, repo.StoreStotra(ctx, &updated))

	s, err := repo.GetStotraByID(ctx, "gayatri")
	require.NoError(t, err)
	assert.Equal(t, "Gayatri Mantra (Rigveda)", s.Title)
	assert.True(t, s.IsFavorite)
	assert.WithinDuration(t, original.CreatedAt, s.CreatedAt, 0)

	count, err := repo.CountByLanguage(ctx, entities.LanguageSanskrit)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_GetStotrasByLanguage_SortedByTitle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)

	list, err := repo.GetStotrasByLanguage(context.Background(), entities.LanguageSanskrit)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "100% Devotion", list[0].Title)
	assert.Equal(t, "Gayatri Mantra", list[1].Title)
	assert.Equal(t, "Shiva Tandava Stotram", list[2].Title)
}

func TestRepository_SearchStotras(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"case-insensitive title", "gAyAtRi", []string{"gayatri"}},
		{"description", "cosmic", []string{"shiva-tandava"}},
		{"native title", "गायत्री", []string{"gayatri"}},
		{"percent is literal", "100%", []string{"odd_name"}},
		{"underscore is literal", "under_", []string{"odd_name"}},
		{"underscore does not match any char", "gay_tri", nil},
		{"other language excluded", "hanuman", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.SearchStotras(ctx, entities.LanguageSanskrit, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	all, err := repo.SearchStotras(ctx, entities.LanguageSanskrit, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_ToggleFavorite(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)
	ctx := context.Background()

	s, err := repo.ToggleFavorite(ctx, "hanuman")
	require.NoError(t, err)
	assert.True(t, s.IsFavorite)

	favs, err := repo.GetFavoriteStotras(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	s, err = repo.ToggleFavorite(ctx, "hanuman")
	require.NoError(t, err)
	assert.False(t, s.IsFavorite)

	_, err = repo.ToggleFavorite(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_UpdateReadingProgress(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)
	ctx := context.Background()

	s, err := repo.UpdateReadingProgress(ctx, "gayatri", 120)
	require.NoError(t, err)
	assert.Equal(t, 100.0, s.ReadingProgress)
	require.NotNil(t, s.LastReadAt)

	_, err = repo.UpdateReadingProgress(ctx, "shiva-tandava", 40)
	require.NoError(t, err)

	recent, err := repo.GetRecentlyRead(ctx, entities.LanguageSanskrit, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	recent, err = repo.GetRecentlyRead(ctx, entities.LanguageSanskrit, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	_, err = repo.UpdateReadingProgress(ctx, "missing", 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRepository_GetStotrasByCategory(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)

	list, err := repo.GetStotrasByCategory(context.Background(), entities.LanguageSanskrit, entities.CategoryMantra)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "gayatri", list[0].ID)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	seed(t, repo)
	ctx := context.Background()

	n, err := repo.DeleteLanguage(ctx, entities.LanguageTelugu)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, repo.Ping(ctx))
}

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

func TestComputeStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		stats := ComputeStats(nil)
		assert.Equal(t, entities.LanguageStats{}, stats)
	})

	t.Run("mixed", func(t *testing.T) {
		stats := ComputeStats([]entities.Stotra{
			{ID: "a", IsFavorite: true, ReadingProgress: 100, EstimatedReadingTime: 5},
			{ID: "b", ReadingProgress: 50, EstimatedReadingTime: 10},
			{ID: "c", IsFavorite: true, EstimatedReadingTime: 15},
		})
		assert.Equal(t, 3, stats.TotalStotras)
		assert.Equal(t, 2, stats.FavoriteStotras)
		assert.Equal(t, 1, stats.CompletedStotras)
		assert.Equal(t, 30, stats.TotalReadingTime)
		assert.Equal(t, 50.0, stats.AverageProgress)
	})
}

func TestGroupByCategory(t *testing.T) {
	grouped := GroupByCategory([]entities.Stotra{
		{ID: "a", Category: entities.CategoryMantra},
		{ID: "b", Category: entities.CategoryMantra},
		{ID: "c", Category: entities.CategoryPrayer},
	})

	assert.Len(t, grouped, len(entities.Categories))
	assert.Len(t, grouped[entities.CategoryMantra], 2)
	assert.Len(t, grouped[entities.CategoryPrayer], 1)
	assert.NotNil(t, grouped[entities.CategoryScripture])
	assert.Empty(t, grouped[entities.CategoryScripture])
}

func TestRecentlyRead(t *testing.T) {
	t1 := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	got := RecentlyRead([]entities.Stotra{
		{ID: "never"},
		{ID: "old", LastReadAt: &t1},
		{ID: "new", LastReadAt: &t2},
	}, 0)

	if assert.Len(t, got, 2) {
		assert.Equal(t, "new", got[0].ID)
		assert.Equal(t, "old", got[1].ID)
	}
}

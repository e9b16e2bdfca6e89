package repository

import (
	"sort"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// ComputeStats summarises a list of stotras. AverageProgress is 0 for an empty list.
func ComputeStats(stotras []entities.Stotra) entities.LanguageStats {
	var stats entities.LanguageStats
	var progressSum float64

	for _, s := range stotras {
		stats.TotalStotras++
		if s.IsFavorite {
			stats.FavoriteStotras++
		}
		if s.IsCompleted() {
			stats.CompletedStotras++
		}
		stats.TotalReadingTime += s.EstimatedReadingTime
		progressSum += s.ReadingProgress
	}
	if stats.TotalStotras > 0 {
		stats.AverageProgress = progressSum / float64(stats.TotalStotras)
	}
	return stats
}

// GroupByCategory buckets stotras by category. Every known category has an
// entry, possibly empty.
func GroupByCategory(stotras []entities.Stotra) map[entities.Category][]entities.Stotra {
	grouped := make(map[entities.Category][]entities.Stotra, len(entities.Categories))
	for _, info := range entities.Categories {
		grouped[info.ID] = []entities.Stotra{}
	}
	for _, s := range stotras {
		grouped[s.Category] = append(grouped[s.Category], s)
	}
	return grouped
}

// SortByTitle orders stotras by title, then id for stability.
func SortByTitle(stotras []entities.Stotra) {
	sort.SliceStable(stotras, func(i, j int) bool {
		if stotras[i].Title != stotras[j].Title {
			return stotras[i].Title < stotras[j].Title
		}
		return stotras[i].ID < stotras[j].ID
	})
}

// RecentlyRead returns stotras with a LastReadAt, newest first, at most limit.
// A non-positive limit returns all of them.
func RecentlyRead(stotras []entities.Stotra, limit int) []entities.Stotra {
	read := make([]entities.Stotra, 0, len(stotras))
	for _, s := range stotras {
		if s.LastReadAt != nil {
			read = append(read, s)
		}
	}
	sort.SliceStable(read, func(i, j int) bool {
		return read[i].LastReadAt.After(*read[j].LastReadAt)
	})
	if limit > 0 && len(read) > limit {
		read = read[:limit]
	}
	return read
}

// FilterFavorites keeps favorite stotras.
func FilterFavorites(stotras []entities.Stotra) []entities.Stotra {
	out := make([]entities.Stotra, 0, len(stotras))
	for _, s := range stotras {
		if s.IsFavorite {
			out = append(out, s)
		}
	}
	return out
}

// FilterCategory keeps stotras of one category.
func FilterCategory(stotras []entities.Stotra, category entities.Category) []entities.Stotra {
	out := make([]entities.Stotra, 0, len(stotras))
	for _, s := range stotras {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

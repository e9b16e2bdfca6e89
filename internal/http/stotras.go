package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/offline"
)

// StotraService defines the read and reader-state operations on stotras.
type StotraService interface {
	Resolve(ctx context.Context, id string) (*entities.Stotra, offline.Source, error)
	StotrasByLanguage(ctx context.Context, language entities.ContentLanguage) (offline.Result, error)
	StotrasByCategory(ctx context.Context, language entities.ContentLanguage, category entities.Category) (offline.Result, error)
	FavoriteStotras(ctx context.Context, language entities.ContentLanguage) (offline.Result, error)
	SearchStotras(ctx context.Context, language entities.ContentLanguage, query string) (offline.Result, error)
	RecentlyRead(ctx context.Context, language entities.ContentLanguage, limit int) (offline.Result, error)
	GroupedByCategory(ctx context.Context, language entities.ContentLanguage) (map[entities.Category][]entities.Stotra, offline.Source, error)
	LanguageStats(ctx context.Context, language entities.ContentLanguage) (entities.LanguageStats, offline.Source, error)
	ToggleFavorite(ctx context.Context, id string) (*entities.Stotra, error)
	UpdateReadingProgress(ctx context.Context, id string, progress float64) (*entities.Stotra, error)
}

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// StotraListResponse is the body of every stotra list endpoint.
type StotraListResponse struct {
	Language entities.ContentLanguage `json:"language"`
	Source   offline.Source           `json:"source"`
	Count    int                      `json:"count"`
	Stotras  []entities.Stotra        `json:"stotras"`
}

// StotraResponse wraps a single stotra with the tier it came from.
type StotraResponse struct {
	Stotra *entities.Stotra `json:"stotra"`
	Source offline.Source   `json:"source,omitempty"`
}

// CategoryGroup is one category of a grouped listing.
type CategoryGroup struct {
	Category entities.CategoryInfo `json:"category"`
	Stotras  []entities.Stotra     `json:"stotras"`
}

type StotrasController struct {
	svc StotraService
}

func NewStotrasController(svc StotraService) *StotrasController {
	return &StotrasController{svc: svc}
}

func respondList(c *gin.Context, language entities.ContentLanguage, result offline.Result) {
	stotras := result.Stotras
	if stotras == nil {
		stotras = []entities.Stotra{}
	}
	c.JSON(http.StatusOK, StotraListResponse{
		Language: language,
		Source:   result.Source,
		Count:    len(stotras),
		Stotras:  stotras,
	})
}

// ListStotras returns the stotras of a language, optionally of one category.
// GET /api/languages/:language/stotras?category=
func (sc *StotrasController) ListStotras(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	var (
		result offline.Result
		err    error
	)
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		result, err = sc.svc.StotrasByCategory(c.Request.Context(), language, entities.Category(strings.ToLower(category)))
	} else {
		result, err = sc.svc.StotrasByLanguage(c.Request.Context(), language)
	}
	if err != nil {
		respondServiceError(c, err, "list stotras")
		return
	}
	respondList(c, language, result)
}

// GroupedStotras returns the stotras of a language grouped by category.
// GET /api/languages/:language/stotras/grouped
func (sc *StotrasController) GroupedStotras(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	groups, source, err := sc.svc.GroupedByCategory(c.Request.Context(), language)
	if err != nil {
		respondServiceError(c, err, "group stotras")
		return
	}

	response := make([]CategoryGroup, 0, len(entities.Categories))
	for _, info := range entities.Categories {
		stotras := groups[info.ID]
		if stotras == nil {
			stotras = []entities.Stotra{}
		}
		response = append(response, CategoryGroup{Category: info, Stotras: stotras})
	}

	c.JSON(http.StatusOK, gin.H{
		"language":   language,
		"source":     source,
		"categories": response,
	})
}

// FavoriteStotras returns the favorite stotras of a language.
// GET /api/languages/:language/stotras/favorites
func (sc *StotrasController) FavoriteStotras(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	result, err := sc.svc.FavoriteStotras(c.Request.Context(), language)
	if err != nil {
		respondServiceError(c, err, "list favorites")
		return
	}
	respondList(c, language, result)
}

// SearchStotras searches title, native title and description.
// GET /api/languages/:language/stotras/search?q=
func (sc *StotrasController) SearchStotras(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	result, err := sc.svc.SearchStotras(c.Request.Context(), language, c.Query("q"))
	if err != nil {
		respondServiceError(c, err, "search stotras")
		return
	}
	respondList(c, language, result)
}

// RecentlyRead returns the most recently read stotras, newest first.
// GET /api/languages/:language/stotras/recent?limit=
func (sc *StotrasController) RecentlyRead(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c, defaultRecentLimit, maxRecentLimit)
	if !ok {
		return
	}

	result, err := sc.svc.RecentlyRead(c.Request.Context(), language, limit)
	if err != nil {
		respondServiceError(c, err, "recently read")
		return
	}
	respondList(c, language, result)
}

// LanguageStats returns reading statistics of a language.
// GET /api/languages/:language/stats
func (sc *StotrasController) LanguageStats(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	stats, source, err := sc.svc.LanguageStats(c.Request.Context(), language)
	if err != nil {
		respondServiceError(c, err, "language stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"language": language,
		"source":   source,
		"stats":    stats,
	})
}

// GetStotra returns one stotra from the cache, or the fallback when it has
// not been downloaded.
// GET /api/stotras/:id
func (sc *StotrasController) GetStotra(c *gin.Context) {
	stotra, source, err := sc.svc.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get stotra")
		return
	}
	c.JSON(http.StatusOK, StotraResponse{Stotra: stotra, Source: source})
}

// ToggleFavorite flips the favorite flag of a stotra.
// POST /api/stotras/:id/favorite
func (sc *StotrasController) ToggleFavorite(c *gin.Context) {
	stotra, err := sc.svc.ToggleFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "toggle favorite")
		return
	}
	c.JSON(http.StatusOK, StotraResponse{Stotra: stotra})
}

// ProgressRequest is the body of the reading progress endpoint.
type ProgressRequest struct {
	Progress *float64 `json:"progress" binding:"required"`
}

// UpdateProgress records how far a stotra has been read. Values outside
// [0, 100] are clamped.
// PUT /api/stotras/:id/progress
func (sc *StotrasController) UpdateProgress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "progress is required")
		return
	}

	stotra, err := sc.svc.UpdateReadingProgress(c.Request.Context(), c.Param("id"), *req.Progress)
	if err != nil {
		respondServiceError(c, err, "update progress")
		return
	}
	c.JSON(http.StatusOK, StotraResponse{Stotra: stotra})
}

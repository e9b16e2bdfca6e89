package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// DownloadStateReader reports per-language download state.
type DownloadStateReader interface {
	DownloadProgress(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error)
}

// LanguageInfo is a content language together with its offline state.
type LanguageInfo struct {
	entities.Language
	IsDownloaded bool    `json:"is_downloaded"`
	Progress     float64 `json:"progress"`
}

type LanguagesController struct {
	downloads DownloadStateReader
}

func NewLanguagesController(downloads DownloadStateReader) *LanguagesController {
	return &LanguagesController{downloads: downloads}
}

// ListLanguages returns the content languages with their download state.
// GET /api/languages
func (lc *LanguagesController) ListLanguages(c *gin.Context) {
	languages := make([]LanguageInfo, 0, len(entities.ContentLanguages))
	for _, lang := range entities.ContentLanguages {
		info := LanguageInfo{Language: lang}
		d, err := lc.downloads.DownloadProgress(c.Request.Context(), lang.ID)
		if err != nil {
			respondInternalError(c, err, "list languages")
			return
		}
		info.IsDownloaded = d.IsDownloaded
		info.Progress = d.Progress
		languages = append(languages, info)
	}

	c.JSON(http.StatusOK, gin.H{
		"languages":    languages,
		"ui_languages": entities.UILanguages,
	})
}

// ListCategories returns every category in display order.
// GET /api/categories
func (lc *LanguagesController) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": entities.Categories})
}

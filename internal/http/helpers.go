package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/offline"
	"github.com/bhaktivani/bhaktivani/internal/preferences"
	"github.com/bhaktivani/bhaktivani/internal/repository"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.WithError(err).WithField("context", context).Error("Internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps domain errors to status codes.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, entities.ErrUnknownLanguage),
		errors.Is(err, entities.ErrUnknownCategory),
		errors.Is(err, preferences.ErrInvalid):
		respondBadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		respondNotFound(c, "stotra")
	case errors.Is(err, offline.ErrNoContent):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, offline.ErrDownloadInProgress):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parseLanguageParam resolves the :language URL parameter, accepting either
// the language id or its ISO code. Responds with 400 on failure.
func parseLanguageParam(c *gin.Context) (entities.ContentLanguage, bool) {
	language, err := entities.ParseContentLanguage(c.Param("language"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return language, true
}

// parseLimitQuery reads a positive limit capped at max, or def when absent.
func parseLimitQuery(c *gin.Context, def, max int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondBadRequest(c, "invalid limit")
		return 0, false
	}
	if limit > max {
		limit = max
	}
	return limit, true
}

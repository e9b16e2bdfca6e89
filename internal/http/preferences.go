package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhaktivani/bhaktivani/internal/preferences"
)

type PreferencesController struct {
	store *preferences.Store
}

func NewPreferencesController(store *preferences.Store) *PreferencesController {
	return &PreferencesController{store: store}
}

// GetPreferences returns the current preferences.
// GET /api/preferences
func (pc *PreferencesController) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, pc.store.Get())
}

// UpdatePreferences merges a partial JSON document into the preferences.
// Fields that are absent keep their value; the result must validate.
// PATCH /api/preferences
func (pc *PreferencesController) UpdatePreferences(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		respondBadRequest(c, "request body is required")
		return
	}

	state, err := pc.store.Update(c.Request.Context(), func(st *preferences.State) error {
		return json.Unmarshal(body, st)
	})
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			respondBadRequest(c, "invalid request body: "+err.Error())
			return
		}
		respondServiceError(c, err, "update preferences")
		return
	}
	c.JSON(http.StatusOK, state)
}

// ResetPreferences restores the defaults.
// POST /api/preferences/reset
func (pc *PreferencesController) ResetPreferences(c *gin.Context) {
	state, err := pc.store.Reset(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "reset preferences")
		return
	}
	c.JSON(http.StatusOK, state)
}

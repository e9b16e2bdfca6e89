package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

const maxActivityPage = 200

// ActivityLog reads the content maintenance log.
type ActivityLog interface {
	GetEvents(eventType entities.ActivityEventType, limit, offset int) ([]entities.ActivityEvent, int64, error)
	GetLanguageEvents(language entities.ContentLanguage, limit int) ([]entities.ActivityEvent, error)
}

// SettingsActivity records settings changes made through the API.
type SettingsActivity interface {
	SettingsChanged(action, description string)
}

type ActivityController struct {
	log ActivityLog
}

func NewActivityController(log ActivityLog) *ActivityController {
	return &ActivityController{log: log}
}

type ActivityResponse struct {
	Events []entities.ActivityEvent `json:"events"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// ListEvents handles GET /api/activity?type=&limit=&offset=
func (ac *ActivityController) ListEvents(c *gin.Context) {
	limit, ok := parseLimitQuery(c, 50, maxActivityPage)
	if !ok {
		return
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondBadRequest(c, "invalid offset")
			return
		}
		offset = n
	}

	eventType := entities.ActivityEventType(c.Query("type"))
	switch eventType {
	case "", entities.ActivityEventDownload, entities.ActivityEventClear,
		entities.ActivityEventRefresh, entities.ActivityEventReset, entities.ActivityEventSettings:
	default:
		respondBadRequest(c, "unknown event type")
		return
	}

	events, total, err := ac.log.GetEvents(eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "list activity")
		return
	}
	if events == nil {
		events = []entities.ActivityEvent{}
	}

	c.JSON(http.StatusOK, ActivityResponse{
		Events: events,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// LanguageEvents handles GET /api/languages/:language/activity?limit=
func (ac *ActivityController) LanguageEvents(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}
	limit, ok := parseLimitQuery(c, 20, maxActivityPage)
	if !ok {
		return
	}

	events, err := ac.log.GetLanguageEvents(language, limit)
	if err != nil {
		respondInternalError(c, err, "language activity")
		return
	}
	if events == nil {
		events = []entities.ActivityEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"language": language, "events": events})
}

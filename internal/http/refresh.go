package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/scheduler"
)

// RefreshScheduler controls the periodic refresh of downloaded languages.
type RefreshScheduler interface {
	Status() scheduler.Status
	Reschedule() error
	RunNow() error
}

// SettingsWriter stores settings records.
type SettingsWriter interface {
	SetSettings(values map[string]string) error
}

type RefreshController struct {
	scheduler RefreshScheduler
	settings  SettingsWriter
	activity  SettingsActivity
}

// NewRefreshController creates the controller. activity may be nil.
func NewRefreshController(s RefreshScheduler, settings SettingsWriter, activity SettingsActivity) *RefreshController {
	return &RefreshController{scheduler: s, settings: settings, activity: activity}
}

// GetStatus handles GET /api/refresh
func (rc *RefreshController) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, rc.scheduler.Status())
}

// RefreshSettingsRequest updates the refresh schedule. Absent fields keep
// their value.
type RefreshSettingsRequest struct {
	Enabled  *bool   `json:"enabled"`
	Schedule *string `json:"schedule"`
}

// UpdateSettings handles PUT /api/refresh
func (rc *RefreshController) UpdateSettings(c *gin.Context) {
	var req RefreshSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	values := map[string]string{}
	if req.Schedule != nil {
		if err := scheduler.ValidateCronSchedule(*req.Schedule); err != nil {
			respondBadRequest(c, "invalid cron schedule: "+err.Error())
			return
		}
		values[entities.SettingKeyRefreshSchedule] = *req.Schedule
	}
	if req.Enabled != nil {
		values[entities.SettingKeyRefreshEnabled] = boolString(*req.Enabled)
	}
	if len(values) == 0 {
		respondBadRequest(c, "nothing to update")
		return
	}

	if err := rc.settings.SetSettings(values); err != nil {
		respondInternalError(c, err, "save refresh settings")
		return
	}
	if err := rc.scheduler.Reschedule(); err != nil {
		respondInternalError(c, err, "reschedule refresh")
		return
	}

	status := rc.scheduler.Status()
	if rc.activity != nil {
		rc.activity.SettingsChanged("refresh_schedule_update", describeRefresh(status))
	}
	c.JSON(http.StatusOK, status)
}

// RunNow handles POST /api/refresh/run
func (rc *RefreshController) RunNow(c *gin.Context) {
	if err := rc.scheduler.RunNow(); err != nil {
		respondInternalError(c, err, "run refresh")
		return
	}
	respondAccepted(c, "refresh started", nil)
}

func describeRefresh(s scheduler.Status) string {
	if !s.Enabled {
		return "Refresh disabled"
	}
	return fmt.Sprintf("Refresh enabled: %s", s.Description)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

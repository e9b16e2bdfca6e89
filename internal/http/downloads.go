package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/offline"
	"github.com/bhaktivani/bhaktivani/internal/tasks"
)

// DownloadService defines the offline download operations.
type DownloadService interface {
	DownloadLanguage(ctx context.Context, language entities.ContentLanguage, onProgress func(offline.Progress)) error
	ClearLanguage(ctx context.Context, language entities.ContentLanguage) (int, error)
	DownloadProgress(ctx context.Context, language entities.ContentLanguage) (*entities.LanguageDownload, error)
	CurrentDownload() (entities.ContentLanguage, bool)
}

// RunStore exposes the live progress of download runs.
type RunStore interface {
	GetRun(language entities.ContentLanguage) (*entities.DownloadRun, error)
	ListRuns() ([]entities.DownloadRun, error)
	IsSyncRunning(language entities.ContentLanguage) (bool, error)
}

// QueueReader summarises the per-item download queue.
type QueueReader interface {
	QueueSummary(ctx context.Context, language entities.ContentLanguage) (map[entities.QueueStatus]int, error)
}

// TaskEnqueuer adds background tasks.
type TaskEnqueuer interface {
	Add(tasks ...backlite.Task) *backlite.TaskAddOp
}

// DownloadStatusResponse describes the offline state of one language.
type DownloadStatusResponse struct {
	Download   *entities.LanguageDownload   `json:"download"`
	InProgress bool                         `json:"in_progress"`
	Run        *entities.DownloadRun        `json:"run,omitempty"`
	Queue      map[entities.QueueStatus]int `json:"queue,omitempty"`
}

type DownloadsController struct {
	svc   DownloadService
	runs  RunStore
	queue QueueReader
	tasks TaskEnqueuer
}

// NewDownloadsController creates the controller. runs, queue and taskClient
// are optional; without a task client downloads run within the request.
func NewDownloadsController(svc DownloadService, runs RunStore, queue QueueReader, taskClient TaskEnqueuer) *DownloadsController {
	return &DownloadsController{svc: svc, runs: runs, queue: queue, tasks: taskClient}
}

func (dc *DownloadsController) busy(language entities.ContentLanguage) bool {
	current, ok := dc.svc.CurrentDownload()
	return ok && current == language
}

// StartDownload downloads a language for offline use.
// POST /api/languages/:language/download
func (dc *DownloadsController) StartDownload(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}
	if _, running := dc.svc.CurrentDownload(); running {
		respondError(c, http.StatusConflict, offline.ErrDownloadInProgress.Error())
		return
	}

	if dc.tasks != nil {
		ids, err := dc.tasks.Add(tasks.DownloadLanguageTask{Language: language}).Ctx(c.Request.Context()).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue download")
			return
		}
		respondAccepted(c, "download enqueued", gin.H{"task_id": ids[0], "language": language})
		return
	}

	if err := dc.svc.DownloadLanguage(c.Request.Context(), language, nil); err != nil {
		respondServiceError(c, err, "download language")
		return
	}
	d, err := dc.svc.DownloadProgress(c.Request.Context(), language)
	if err != nil {
		respondInternalError(c, err, "download progress")
		return
	}
	respondSuccess(c, "download completed", d)
}

// DownloadStatus returns the download state of a language.
// GET /api/languages/:language/download
func (dc *DownloadsController) DownloadStatus(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}

	d, err := dc.svc.DownloadProgress(c.Request.Context(), language)
	if err != nil {
		respondServiceError(c, err, "download progress")
		return
	}

	response := DownloadStatusResponse{
		Download:   d,
		InProgress: dc.busy(language),
	}
	if dc.runs != nil {
		// a download started by the CLI is only visible through its run record
		running, err := dc.runs.IsSyncRunning(language)
		if err != nil {
			log.WithError(err).WithField("language", language).Warn("Failed to read download run state")
		}
		response.InProgress = response.InProgress || running

		if run, err := dc.runs.GetRun(language); err == nil {
			response.Run = run
		}
	}
	if dc.queue != nil {
		summary, err := dc.queue.QueueSummary(c.Request.Context(), language)
		if err != nil {
			log.WithError(err).WithField("language", language).Warn("Failed to read download queue")
		} else if len(summary) > 0 {
			response.Queue = summary
		}
	}

	c.JSON(http.StatusOK, response)
}

// ClearDownload removes the offline content of a language.
// DELETE /api/languages/:language/download
func (dc *DownloadsController) ClearDownload(c *gin.Context) {
	language, ok := parseLanguageParam(c)
	if !ok {
		return
	}
	if dc.busy(language) {
		respondError(c, http.StatusConflict, offline.ErrDownloadInProgress.Error())
		return
	}

	if dc.tasks != nil {
		ids, err := dc.tasks.Add(tasks.ClearLanguageTask{Language: language}).Ctx(c.Request.Context()).Save()
		if err != nil {
			respondInternalError(c, err, "enqueue clear")
			return
		}
		respondAccepted(c, "clear enqueued", gin.H{"task_id": ids[0], "language": language})
		return
	}

	deleted, err := dc.svc.ClearLanguage(c.Request.Context(), language)
	if err != nil {
		respondServiceError(c, err, "clear language")
		return
	}
	respondSuccess(c, "language cleared", gin.H{"language": language, "deleted": deleted})
}

// RunsStatus returns the live progress of every download run.
// GET /api/downloads/status
func (dc *DownloadsController) RunsStatus(c *gin.Context) {
	current, running := dc.svc.CurrentDownload()

	runs := []entities.DownloadRun{}
	if dc.runs != nil {
		list, err := dc.runs.ListRuns()
		if err != nil {
			respondInternalError(c, err, "list download runs")
			return
		}
		runs = append(runs, list...)
	}

	body := gin.H{
		"in_progress": running,
		"runs":        runs,
	}
	if running {
		body["current"] = current
	}
	c.JSON(http.StatusOK, body)
}

// Package scheduler runs the periodic refresh of downloaded languages.
//
// The refresh job re-downloads every language that is stored offline so
// that catalog updates reach the cache. Whether it runs and when is read
// from the settings table on each Start, falling back to the configured
// defaults, so a Reschedule picks up changed settings.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/bhaktivani/bhaktivani/internal/entities"
	"github.com/bhaktivani/bhaktivani/internal/tasks"
)

// Refresh statuses recorded under entities.SettingKeyRefreshLastStatus.
const (
	StatusQueued  = "queued"
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// SettingsStore is the subset of the settings repository the scheduler uses.
type SettingsStore interface {
	GetString(key, fallback string) string
	GetBool(key string, fallback bool) bool
	SetSettings(values map[string]string) error
}

// RefreshFunc performs one refresh. It returns the status to record and a
// short message.
type RefreshFunc func(ctx context.Context) (status string, message string, err error)

// Config holds the defaults used when the settings table has no value.
type Config struct {
	Enabled  bool
	Schedule string
}

// Status is the scheduler state exposed to the API.
type Status struct {
	Enabled     bool       `json:"enabled"`
	Running     bool       `json:"running"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	LastRunAt   string     `json:"last_run_at,omitempty"`
	LastStatus  string     `json:"last_status,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// RefreshScheduler manages the periodic refresh job.
type RefreshScheduler struct {
	settings SettingsStore
	refresh  RefreshFunc
	defaults Config
	now      func() time.Time

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	parent     context.Context
	cancelFunc context.CancelFunc
}

// NewRefreshScheduler creates a new scheduler instance.
func NewRefreshScheduler(settings SettingsStore, refresh RefreshFunc, defaults Config) *RefreshScheduler {
	if defaults.Schedule == "" {
		defaults.Schedule = DefaultSchedule
	}
	return &RefreshScheduler{
		settings: settings,
		refresh:  refresh,
		defaults: defaults,
		now:      time.Now,
		cron:     cron.New(cron.WithParser(parser)),
		parent:   context.Background(),
	}
}

// Enabled reports whether the periodic refresh is switched on.
func (s *RefreshScheduler) Enabled() bool {
	return s.settings.GetBool(entities.SettingKeyRefreshEnabled, s.defaults.Enabled)
}

// Schedule returns the effective cron schedule.
func (s *RefreshScheduler) Schedule() string {
	return s.settings.GetString(entities.SettingKeyRefreshSchedule, s.defaults.Schedule)
}

// Start begins the scheduler if refresh is enabled.
func (s *RefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.Enabled() {
		log.Info("Refresh scheduler: disabled")
		return nil
	}

	schedule := s.Schedule()
	if err := ValidateCronSchedule(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID

	s.parent = ctx
	var runCtx context.Context
	runCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRunTime(schedule, s.now())
	log.WithFields(log.Fields{
		"schedule":    schedule,
		"description": CronDescription(schedule),
		"next_run":    nextRun,
	}).Info("Refresh scheduler: started")

	go func() {
		<-runCtx.Done()
		if ctx.Err() != nil {
			s.Stop()
		}
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running refresh.
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	done := s.cron.Stop()
	<-done.Done()
	s.cron.Remove(s.entryID)

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Info("Refresh scheduler: stopped")
}

// Reschedule restarts the scheduler with the current settings.
func (s *RefreshScheduler) Reschedule() error {
	s.mu.RLock()
	parent := s.parent
	s.mu.RUnlock()

	s.Stop()
	return s.Start(parent)
}

// RunNow triggers an immediate refresh in the background.
func (s *RefreshScheduler) RunNow() error {
	s.mu.RLock()
	parent := s.parent
	s.mu.RUnlock()

	go s.run(parent)
	return nil
}

// IsRunning returns whether the scheduler is active.
func (s *RefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next refresh will occur.
func (s *RefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// Status returns the configuration and the outcome of the last refresh.
func (s *RefreshScheduler) Status() Status {
	schedule := s.Schedule()
	return Status{
		Enabled:     s.Enabled(),
		Running:     s.IsRunning(),
		Schedule:    schedule,
		Description: CronDescription(schedule),
		NextRun:     s.GetNextRunTime(),
		LastRunAt:   s.settings.GetString(entities.SettingKeyRefreshLastAt, ""),
		LastStatus:  s.settings.GetString(entities.SettingKeyRefreshLastStatus, ""),
		LastError:   s.settings.GetString(entities.SettingKeyRefreshLastError, ""),
	}
}

// run performs one refresh and records its outcome. Overlapping runs are
// skipped.
func (s *RefreshScheduler) run(ctx context.Context) {
	if !s.runMu.TryLock() {
		log.Info("Refresh: skipped (already running)")
		return
	}
	defer s.runMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	started := s.now()
	status, message, err := s.refresh(ctx)
	if err != nil {
		status = StatusFailed
		message = err.Error()
	}

	entry := log.WithFields(log.Fields{
		"status":   status,
		"duration": s.now().Sub(started).Round(time.Millisecond),
	})
	if status == StatusFailed || status == StatusPartial {
		entry.WithField("error", message).Warn("Refresh finished with errors")
	} else {
		entry.Info("Refresh finished")
	}

	lastError := ""
	if status == StatusFailed || status == StatusPartial {
		lastError = message
	}
	if err := s.settings.SetSettings(map[string]string{
		entities.SettingKeyRefreshLastAt:     started.UTC().Format(time.RFC3339),
		entities.SettingKeyRefreshLastStatus: status,
		entities.SettingKeyRefreshLastError:  lastError,
	}); err != nil {
		log.WithError(err).Error("Refresh: failed to record status")
	}
}

// InlineRefresh runs the refresh in the calling goroutine.
func InlineRefresh(refresher tasks.Refresher) RefreshFunc {
	return func(ctx context.Context) (string, string, error) {
		result, err := refresher.RefreshDownloaded(ctx)
		if len(result.Failed) == 0 {
			if err != nil {
				return StatusFailed, "", err
			}
			return StatusSuccess, fmt.Sprintf("refreshed %d languages", len(result.Refreshed)), nil
		}

		failed := make([]string, 0, len(result.Failed))
		for lang, msg := range result.Failed {
			failed = append(failed, string(lang)+": "+msg)
		}
		sort.Strings(failed)
		message := strings.Join(failed, "; ")
		if len(result.Refreshed) == 0 {
			return StatusFailed, message, nil
		}
		return StatusPartial, message, nil
	}
}

// EnqueueRefresh hands the refresh to the task queue.
func EnqueueRefresh(client *tasks.Client) RefreshFunc {
	return func(ctx context.Context) (string, string, error) {
		ids, err := client.Add(tasks.RefreshDownloadedTask{}).Ctx(ctx).Save()
		if err != nil {
			return StatusFailed, "", fmt.Errorf("enqueue refresh: %w", err)
		}
		return StatusQueued, "task " + strings.Join(ids, ","), nil
	}
}

package entities

import (
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// DownloadRun is the live progress of the latest download run for a language.
type DownloadRun struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	RunID       string          `gorm:"size:36" json:"run_id"`
	Language    ContentLanguage `gorm:"size:20;uniqueIndex" json:"language"`
	Status      RunStatus       `gorm:"size:20" json:"status"`
	TotalItems  int             `json:"total_items"`
	Processed   int             `json:"processed"`
	CurrentItem string          `gorm:"size:512" json:"current_item,omitempty"`
	Error       string          `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

func (DownloadRun) TableName() string {
	return "download_runs"
}

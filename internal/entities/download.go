package entities

import (
	"time"
)

// LanguageDownload tracks the offline download state of one content language.
type LanguageDownload struct {
	Language          ContentLanguage `gorm:"primaryKey;size:20" json:"language"`
	IsDownloaded      bool            `gorm:"default:false" json:"is_downloaded"`
	Progress          float64         `gorm:"column:download_progress;default:0" json:"progress"`
	TotalStotras      int             `gorm:"default:0" json:"total_stotras"`
	DownloadedStotras int             `gorm:"default:0" json:"downloaded_stotras"`
	LastDownloadAt    *time.Time      `json:"last_download_at,omitempty"`
}

func (LanguageDownload) TableName() string {
	return "language_downloads"
}

type QueueStatus string

const (
	QueueStatusPending     QueueStatus = "pending"
	QueueStatusDownloading QueueStatus = "downloading"
	QueueStatusCompleted   QueueStatus = "completed"
	QueueStatusFailed      QueueStatus = "failed"
)

// DownloadQueueItem records one stotra of a language download run.
type DownloadQueueItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	RunID     string          `gorm:"index;size:36" json:"run_id"`
	StotraID  string          `gorm:"index;size:128" json:"stotra_id"`
	Language  ContentLanguage `gorm:"index;size:20" json:"language"`
	Status    QueueStatus     `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

func (DownloadQueueItem) TableName() string {
	return "download_queue"
}

// LanguageStats summarises the stotras of one language.
type LanguageStats struct {
	TotalStotras     int     `json:"total_stotras"`
	FavoriteStotras  int     `json:"favorite_stotras"`
	CompletedStotras int     `json:"completed_stotras"`
	TotalReadingTime int     `json:"total_reading_time"` // minutes
	AverageProgress  float64 `json:"average_progress"`
}

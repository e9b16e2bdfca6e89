package entities

import "time"

type ActivityEventType string

const (
	ActivityEventDownload ActivityEventType = "download"
	ActivityEventClear    ActivityEventType = "clear"
	ActivityEventRefresh  ActivityEventType = "refresh"
	ActivityEventReset    ActivityEventType = "reset"
	ActivityEventSettings ActivityEventType = "settings"
)

type ActivityStatus string

const (
	ActivityStatusSuccess ActivityStatus = "success"
	ActivityStatusFailed  ActivityStatus = "failed"
)

// ActivityEvent is one entry of the content maintenance log.
type ActivityEvent struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	EventType   ActivityEventType `gorm:"index;size:50" json:"event_type"`
	Action      string            `gorm:"size:100" json:"action"`      // e.g. "language_download", "schedule_update"
	Description string            `gorm:"size:500" json:"description"` // Human-readable summary
	Language    ContentLanguage   `gorm:"index;size:20" json:"language,omitempty"`
	Metadata    string            `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      ActivityStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string            `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

func (ActivityEvent) TableName() string {
	return "activity_events"
}

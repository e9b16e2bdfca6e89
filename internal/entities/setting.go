package entities

import (
	"time"
)

type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Known setting keys
const (
	SettingKeyRefreshEnabled    = "refresh_enabled"
	SettingKeyRefreshSchedule   = "refresh_schedule"
	SettingKeyRefreshLastAt     = "refresh_last_at"
	SettingKeyRefreshLastStatus = "refresh_last_status"
	SettingKeyRefreshLastError  = "refresh_last_error"
)

// KVEntry is a raw key-value record used by the SQLite-backed key-value store.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Value     []byte    `gorm:"type:blob"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

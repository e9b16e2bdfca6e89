package entities

import (
	"math"
	"time"
)

// Stotra is a devotional hymn or text in one content language.
type Stotra struct {
	ID                   string          `gorm:"primaryKey;size:128" json:"id" yaml:"id"`
	Title                string          `gorm:"index;size:512" json:"title" yaml:"title"`
	NativeTitle          string          `gorm:"size:512" json:"native_title" yaml:"native_title"`
	Language             ContentLanguage `gorm:"index;size:20" json:"language" yaml:"language"`
	Category             Category        `gorm:"index;size:20" json:"category" yaml:"category"`
	Author               string          `gorm:"size:256" json:"author,omitempty" yaml:"author,omitempty"`
	Description          string          `gorm:"type:text" json:"description" yaml:"description"`
	Content              string          `gorm:"type:text" json:"content" yaml:"content"`
	IsFavorite           bool            `gorm:"default:false" json:"is_favorite" yaml:"is_favorite,omitempty"`
	ReadingProgress      float64         `gorm:"default:0" json:"reading_progress" yaml:"reading_progress,omitempty"`
	EstimatedReadingTime int             `gorm:"default:0" json:"estimated_reading_time" yaml:"estimated_reading_time"` // minutes
	LastReadAt           *time.Time      `json:"last_read_at,omitempty" yaml:"last_read_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at" yaml:"created_at,omitempty"`
	UpdatedAt            time.Time       `json:"updated_at" yaml:"updated_at,omitempty"`

	// SearchKey holds the folded title, native title and description for SQL LIKE queries.
	SearchKey string `gorm:"type:text" json:"-" yaml:"-"`
}

func (Stotra) TableName() string {
	return "stotras"
}

// IsCompleted reports whether the stotra has been read to the end.
func (s Stotra) IsCompleted() bool {
	return s.ReadingProgress >= MaxReadingProgress
}

// Clone returns a deep copy; LastReadAt is not shared with the original.
func (s Stotra) Clone() Stotra {
	c := s
	if s.LastReadAt != nil {
		t := *s.LastReadAt
		c.LastReadAt = &t
	}
	return c
}

// UserState is the part of a stotra that belongs to the reader rather than to the catalog.
type UserState struct {
	IsFavorite      bool
	ReadingProgress float64
	LastReadAt      *time.Time
}

// UserState extracts the reader-owned fields.
func (s Stotra) UserState() UserState {
	st := UserState{IsFavorite: s.IsFavorite, ReadingProgress: s.ReadingProgress}
	if s.LastReadAt != nil {
		t := *s.LastReadAt
		st.LastReadAt = &t
	}
	return st
}

// ApplyUserState overwrites the reader-owned fields.
func (s *Stotra) ApplyUserState(st UserState) {
	s.IsFavorite = st.IsFavorite
	s.ReadingProgress = st.ReadingProgress
	s.LastReadAt = st.LastReadAt
}

const (
	MinReadingProgress = 0.0
	MaxReadingProgress = 100.0
)

// ClampProgress limits a reading progress value to [0, 100].
func ClampProgress(p float64) float64 {
	if math.IsNaN(p) {
		return MinReadingProgress
	}
	if p < MinReadingProgress {
		return MinReadingProgress
	}
	if p > MaxReadingProgress {
		return MaxReadingProgress
	}
	return p
}

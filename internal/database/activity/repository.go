// Package activity stores the content maintenance log.
package activity

import (
	"time"

	"gorm.io/gorm"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

const defaultPageSize = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent saves an activity event to the database.
func (r *Repository) LogEvent(event *entities.ActivityEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	return r.db.Create(event).Error
}

// GetEvents retrieves paginated events, most recent first. An empty
// eventType matches every type.
func (r *Repository) GetEvents(eventType entities.ActivityEventType, limit, offset int) ([]entities.ActivityEvent, int64, error) {
	var events []entities.ActivityEvent
	var total int64

	query := r.db.Model(&entities.ActivityEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	err := query.Order("created_at DESC").Order("id DESC").Limit(limit).Offset(offset).Find(&events).Error
	return events, total, err
}

// GetLanguageEvents retrieves the most recent events of one language.
func (r *Repository) GetLanguageEvents(language entities.ContentLanguage, limit int) ([]entities.ActivityEvent, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	var events []entities.ActivityEvent
	err := r.db.Where("language = ?", language).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes events older than the specified time.
// Returns the number of deleted events.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.ActivityEvent{})
	return result.RowsAffected, result.Error
}

// Package settings provides database operations for application settings,
// such as the content refresh schedule and the outcome of the last refresh.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	schedule := repo.GetString(entities.SettingKeyRefreshSchedule, "0 3 * * 0")
package settings

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// Repository handles all settings database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or updates a setting.
func (r *Repository) SetSetting(key, value string) error {
	var setting entities.Setting
	result := r.db.Where("key = ?", key).First(&setting)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		setting = entities.Setting{
			Key:   key,
			Value: value,
		}
		return r.db.Create(&setting).Error
	} else if result.Error != nil {
		return result.Error
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}

// SetSettings writes several settings in one transaction.
func (r *Repository) SetSettings(values map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &Repository{db: tx}
		for key, value := range values {
			if err := txRepo.SetSetting(key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteSetting removes a setting by key.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// GetString returns the value of key, or fallback when it is unset.
func (r *Repository) GetString(key, fallback string) string {
	setting, err := r.GetSetting(key)
	if err != nil || setting.Value == "" {
		return fallback
	}
	return setting.Value
}

// GetBool parses the value of key, returning fallback when it is unset or
// not a boolean.
func (r *Repository) GetBool(key string, fallback bool) bool {
	setting, err := r.GetSetting(key)
	if err != nil {
		return fallback
	}
	v, err := strconv.ParseBool(setting.Value)
	if err != nil {
		return fallback
	}
	return v
}

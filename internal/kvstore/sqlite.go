package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bhaktivani/bhaktivani/internal/entities"
)

// SQLite keeps entries in the kv_entries table of the application database.
// The table is migrated by database.NewDatabase; NewSQLite migrates it too so
// the store can be used on its own.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(db *gorm.DB) (*SQLite, error) {
	if err := db.AutoMigrate(&entities.KVEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var entry entities.KVEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key string, value []byte) error {
	entry := entities.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&entities.KVEntry{}).Error
}

// Keys uses a half-open range instead of LIKE: LIKE treats '_' as a wildcard
// and folds ASCII case, and our keys contain underscores.
func (s *SQLite) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := s.db.WithContext(ctx).Model(&entities.KVEntry{})
	if prefix != "" {
		query = query.Where("key >= ?", prefix)
		if end, ok := prefixEnd(prefix); ok {
			query = query.Where("key < ?", end)
		}
	}

	keys := []string{}
	if err := query.Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close is a no-op: the connection belongs to the application database.
func (s *SQLite) Close() error {
	return nil
}

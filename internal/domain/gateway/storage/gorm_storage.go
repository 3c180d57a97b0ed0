package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"weather-client/internal/domain/model"
)

// KeyValueEntry is the row persisted state is stored in
type KeyValueEntry struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

func (KeyValueEntry) TableName() string {
	return "key_value_entries"
}

type GormStore struct {
	DB *gorm.DB
}

var _ KeyValueStore = (*GormStore)(nil)

// NewGormStore migrates the key_value_entries table and returns a store over it
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&KeyValueEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate key_value_entries: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (store *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KeyValueEntry
	err := store.DB.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (store *GormStore) Set(ctx context.Context, key, value string) error {
	entry := KeyValueEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return store.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (store *GormStore) Remove(ctx context.Context, key string) error {
	return store.DB.WithContext(ctx).Where("key = ?", key).Delete(&KeyValueEntry{}).Error
}

func (store *GormStore) MultiRemove(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return store.DB.WithContext(ctx).Where("key IN ?", keys).Delete(&KeyValueEntry{}).Error
}

func (store *GormStore) Health() model.ComponentHealthStatus {
	sqlDB, err := store.DB.DB()
	if err != nil {
		return down(err)
	}

	if err = sqlDB.Ping(); err != nil {
		return down(err)
	}

	return up(map[string]string{"driver": "gorm"})
}

package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	// Pure go sqlite driver registered as "sqlite"
	_ "modernc.org/sqlite"
)

// Entry is one persisted key/value row
type Entry struct {
	Key       string `gorm:"column:storage_key;primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of naming strategy
func (Entry) TableName() string {
	return "local_storage"
}

// SQLiteStore persists entries in a sqlite file
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens or creates the sqlite database at path and migrates the entry table
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DriverName: "sqlite",
		DSN:        path,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns value of key or ErrNotFound
func (s *SQLiteStore) Get(key string) (string, error) {
	var entry Entry
	if err := s.db.Where("storage_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

// Set upserts value under key
func (s *SQLiteStore) Set(key string, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Remove deletes every given key
func (s *SQLiteStore) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.Where("storage_key IN ?", keys).Delete(&Entry{}).Error
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	raw, err := s.db.DB()
	if err != nil {
		return err
	}
	return raw.Close()
}

// Open returns a MemoryStore for ":memory:" or an empty path, a SQLiteStore otherwise.
// The returned close func is never nil.
func Open(path string) (Store, func() error, error) {
	if path == "" || path == ":memory:" {
		return NewMemoryStore(), func() error { return nil }, nil
	}
	store, err := OpenSQLite(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return store, store.Close, nil
}

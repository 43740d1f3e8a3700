package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one persisted blob. Session records are JSON, so the column is jsonb.
type Entry struct {
	Key       string         `gorm:"primaryKey;size:512" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	ExpiresAt *time.Time     `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Entry) TableName() string {
	return "quiz_session_entries"
}

// PostgresStore keeps blobs in a single gorm-managed table.
type PostgresStore struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewPostgresStore migrates the entry table and returns the store
func NewPostgresStore(db *gorm.DB, ttl time.Duration) (*PostgresStore, error) {
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate session entries: %w", err)
	}
	return &PostgresStore{db: db, ttl: ttl}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry Entry
	err := p.db.WithContext(ctx).
		Where("key = ?", key).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: datatypes.JSON(value)}
	if p.ttl > 0 {
		expires := time.Now().Add(p.ttl)
		entry.ExpiresAt = &expires
	}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set entry %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	if err := p.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", key, err)
	}
	return nil
}

// PurgeExpired removes entries whose TTL has elapsed and returns how many were deleted
func (p *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := p.db.WithContext(ctx).Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to purge expired entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

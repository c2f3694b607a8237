// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the TTL cache that fronts the
// protocol read endpoints.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// CacheGet returns the cached body for key, or ErrNotFound when the key is
// absent or expired. Expired rows are removed lazily.
func CacheGet(ctx context.Context, db *gorm.DB, key string, now time.Time) (string, error) {
	var entry domain.CacheEntry
	err := db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !entry.ExpiresAt.After(now) {
		db.WithContext(ctx).Where("key = ?", key).Delete(&domain.CacheEntry{})
		return "", ErrNotFound
	}
	return entry.Body, nil
}

// CachePut stores (or refreshes) a serialized response under key for ttl.
func CachePut(ctx context.Context, db *gorm.DB, key, body string, ttl time.Duration) error {
	now := time.Now().UTC()
	entry := &domain.CacheEntry{
		Key:       key,
		Body:      body,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"body", "created_at", "expires_at"}),
		}).
		Create(entry).Error
}

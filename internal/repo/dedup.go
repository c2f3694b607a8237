// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the dedup guard used to block
// structurally identical resend requests inside a TTL window.
//
// The guard relies on the unique index over the fingerprint column: an
// insert either claims the fingerprint atomically or fails with a unique
// violation, which removes the read-then-write race a separate GET/SETEX
// pair would have.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/plugfin/go-webhook-resend/internal/domain"
)

// ClaimFingerprint atomically claims a fingerprint for the duration of the
// TTL. When the fingerprint is already held by a non-expired entry, the
// existing entry is returned together with ErrDuplicate. Expired entries
// are purged lazily before the claim.
func ClaimFingerprint(ctx context.Context, db *gorm.DB, fingerprint string, cedenteID uint, ttl time.Duration) (*domain.DedupEntry, error) {
	now := time.Now().UTC()

	// Lazy expiry: a stale claim must not block a fresh legitimate request.
	db.WithContext(ctx).
		Where("fingerprint = ? AND expires_at <= ?", fingerprint, now).
		Delete(&domain.DedupEntry{})

	entry := &domain.DedupEntry{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		CedenteID:   cedenteID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
	err := db.WithContext(ctx).Create(entry).Error
	if err == nil {
		return entry, nil
	}
	if !isUniqueViolation(err) {
		return nil, err
	}

	// Lost the race (or a prior request is still inside the window): hand
	// back the holder so callers can surface its protocol.
	var existing domain.DedupEntry
	if ferr := db.WithContext(ctx).
		Where("fingerprint = ? AND expires_at > ?", fingerprint, now).
		First(&existing).Error; ferr != nil {
		return nil, ErrDuplicate
	}
	return &existing, ErrDuplicate
}

// FinalizeFingerprint stores the minted protocol on the claim after the
// audit record has been persisted. Runs strictly after a successful
// dispatch; never before.
func FinalizeFingerprint(ctx context.Context, db *gorm.DB, fingerprint, protocolo string) error {
	return db.WithContext(ctx).
		Model(&domain.DedupEntry{}).
		Where("fingerprint = ?", fingerprint).
		Update("protocolo", protocolo).Error
}

// ReleaseFingerprint drops a claim when the pipeline fails before the audit
// record exists, so a failed attempt does not poison future identical,
// legitimate attempts.
func ReleaseFingerprint(ctx context.Context, db *gorm.DB, fingerprint string) error {
	return db.WithContext(ctx).
		Where("fingerprint = ?", fingerprint).
		Delete(&domain.DedupEntry{}).Error
}

// Package domain defines the core persistence models for the application.
package domain

import "time"

// DedupEntry records an in-flight or recently completed resend request,
// keyed by a fingerprint of (cedente, product, sorted ids, kind, type).
// The unique index on Fingerprint is what makes claiming an entry an
// atomic set-if-absent operation; a plain read-then-write would leave a
// window for two identical concurrent requests to both pass the check.
//
// Protocolo is empty while the request is in flight and is filled in only
// after the audit record has been persisted, so a duplicate request inside
// the TTL window can answer with the previously issued protocol.
type DedupEntry struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	Fingerprint string    `gorm:"type:char(64);not null;uniqueIndex"`
	CedenteID   uint      `gorm:"not null"`
	Protocolo   string    `gorm:"type:varchar(32);not null;default:''"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	ExpiresAt   time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (DedupEntry) TableName() string { return "dedup_entries" }

// Package domain defines the core persistence models for the application.
package domain

import "time"

// CacheEntry is a TTL-bound serialized response used by the protocol read
// endpoints. List results live under a key derived from the full filter set;
// individual protocol lookups live under their uuid and are only ever
// written once the delivery status is terminal ("sent").
type CacheEntry struct {
	Key       string    `gorm:"type:varchar(512);primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (CacheEntry) TableName() string { return "query_cache" }

// Package domain defines the core persistence models for the application.
package domain

import "time"

// Idempotency records the result of a previously completed publish request,
// keyed by (store_id, page_type, key). It lets retried publish calls return
// the originally produced result without re-running remote side effects.
type Idempotency struct {
	ID            string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	StoreID       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_store_type_key,priority:1"`
	PageType      string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_store_type_key,priority:2"`
	Key           string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_store_type_key,priority:3"`
	ShopifyPageID string    `gorm:"type:TEXT NOT NULL"`
	Status        int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt     time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

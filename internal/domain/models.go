// Package domain defines the persistence models for stores and their legal
// pages. These types are mapped with GORM and form the core data layer of the
// legal-page engine.
package domain

import "time"

// PageStatus is the lifecycle state of a legal page record.
//
// Transitions:
//
//	(none) --draft save--> draft --publish--> published
//	published --publish--> published              (content/version updated)
//	published --remote page missing--> deleted_on_shopify
//	deleted_on_shopify --publish (recreate)--> published
//
// Records are never removed individually; only whole-tenant erasure deletes
// them (cascade from Store).
type PageStatus string

const (
	StatusDraft            PageStatus = "draft"
	StatusPublished        PageStatus = "published"
	StatusDeletedOnShopify PageStatus = "deleted_on_shopify"
)

// Store represents a merchant tenant, keyed by its shop domain. Legal pages
// cascade-delete with their store (GDPR shop-redact).
type Store struct {
	ID         string    `json:"id"          gorm:"type:TEXT;primaryKey"`
	ShopDomain string    `json:"shop_domain" gorm:"type:TEXT;not null;uniqueIndex"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName returns the database table name for Store.
func (Store) TableName() string { return "stores" }

// LegalPage is one generated legal page per (store, page type) pair.
//
// Fields:
//   - ID: UUID primary key.
//   - StoreID / PageType: composite-unique owner key; at most one record per
//     page type per store.
//   - Status: see PageStatus.
//   - FormData: encrypted envelope wrapping the serialized wizard form data;
//     plaintext is never persisted. Nil only before the first save.
//   - ContentHTML: last rendered page body; nil until first publish.
//   - ShopifyPageID: remote page reference; nil until the first successful
//     remote creation, reset to nil when the remote page is found deleted.
//   - FormSchemaVersion: the template version that produced ContentHTML.
//     Never decreases.
//   - Version: optimistic-concurrency counter. Every successful write bumps
//     it by exactly one; guarded writes are atomic conditional updates.
type LegalPage struct {
	ID                string     `json:"id"                  gorm:"type:TEXT;primaryKey"`
	StoreID           string     `json:"store_id"            gorm:"type:TEXT;not null;uniqueIndex:ux_store_page_type,priority:1"`
	PageType          string     `json:"page_type"           gorm:"type:TEXT;not null;uniqueIndex:ux_store_page_type,priority:2"`
	Status            PageStatus `json:"status"              gorm:"type:TEXT;not null;default:'draft';check:status IN ('draft','published','deleted_on_shopify')"`
	FormData          *string    `json:"-"                   gorm:"type:TEXT"`
	ContentHTML       *string    `json:"-"                   gorm:"column:content_html;type:TEXT"`
	ShopifyPageID     *string    `json:"shopify_page_id"     gorm:"type:TEXT"`
	FormSchemaVersion int        `json:"form_schema_version" gorm:"not null;default:1"`
	Version           int        `json:"-"                   gorm:"not null;default:1"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Store is the owning tenant. Pages are cascade-deleted when their
	// store is erased.
	Store Store `json:"-" gorm:"foreignKey:StoreID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for LegalPage.
func (LegalPage) TableName() string { return "legal_pages" }

// LegalPageMeta is the non-sensitive projection of a LegalPage used for
// concurrency pre-checks and remote-sync decisions. It deliberately omits
// FormData and ContentHTML so those columns are never even read.
type LegalPageMeta struct {
	ID                string     `json:"id"`
	Version           int        `json:"version"`
	Status            PageStatus `json:"status"`
	ShopifyPageID     *string    `json:"shopify_page_id"`
	FormSchemaVersion int        `json:"form_schema_version"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Package repo implements the data persistence layer for stores and legal
// pages, backed by GORM. This file provides repository functions for the
// LegalPage model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - When a page is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Guarded updates return ErrStaleVersion when the row exists but its
//     version no longer matches the caller's expectation.
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marutto-legal/go-legal-pages/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrStaleVersion is returned by guarded updates when the row's version no
// longer matches the expected value: another writer committed first.
var ErrStaleVersion = errors.New("stale version")

// metaColumns keeps FormData and ContentHTML out of meta reads entirely.
var metaColumns = []string{"id", "version", "status", "shopify_page_id", "form_schema_version", "updated_at"}

// GetLegalPage fetches the page for (storeID, pageType), or ErrNotFound.
func GetLegalPage(ctx context.Context, db *gorm.DB, storeID, pageType string) (*domain.LegalPage, error) {
	var p domain.LegalPage
	err := db.WithContext(ctx).
		Where("store_id = ? AND page_type = ?", storeID, pageType).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLegalPageByID fetches a page by primary key, or ErrNotFound.
func GetLegalPageByID(ctx context.Context, db *gorm.DB, id string) (*domain.LegalPage, error) {
	var p domain.LegalPage
	if err := db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetLegalPageMeta fetches the non-sensitive projection for (storeID,
// pageType), or ErrNotFound. The encrypted form data and rendered HTML
// columns are not read.
func GetLegalPageMeta(ctx context.Context, db *gorm.DB, storeID, pageType string) (*domain.LegalPageMeta, error) {
	var m domain.LegalPageMeta
	err := db.WithContext(ctx).
		Model(&domain.LegalPage{}).
		Select(metaColumns).
		Where("store_id = ? AND page_type = ?", storeID, pageType).
		Take(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListLegalPages returns every page belonging to storeID, ordered by page
// type for stable output. It returns an empty slice if the store has none.
func ListLegalPages(ctx context.Context, db *gorm.DB, storeID string) ([]domain.LegalPage, error) {
	var out []domain.LegalPage
	err := db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("page_type asc").
		Find(&out).Error
	return out, err
}

// CreateLegalPage inserts a new page row at version 1 with a UUID primary
// key. The caller provides status, form data and schema version; timestamps
// are set to UTC now.
func CreateLegalPage(ctx context.Context, db *gorm.DB, page *domain.LegalPage) (*domain.LegalPage, error) {
	now := time.Now().UTC()
	page.ID = uuid.NewString()
	page.Version = 1
	page.CreatedAt = now
	page.UpdatedAt = now
	if err := db.WithContext(ctx).Create(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// UpdateLegalPage applies fields to the page and bumps its version by one.
// Every write moves the version forward so concurrent guarded writers
// observe the change. Returns ErrNotFound if the page does not exist.
func UpdateLegalPage(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	updates := withVersionBump(fields, gorm.Expr("version + 1"))
	res := db.WithContext(ctx).
		Model(&domain.LegalPage{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateLegalPageGuarded applies fields only if the row still carries
// expectedVersion, setting version to expectedVersion+1 in the same
// statement. The version check and the write are a single conditional
// UPDATE, so two racing writers can never both succeed: exactly one matches
// the predicate, the other gets ErrStaleVersion (or ErrNotFound when the row
// is gone entirely).
func UpdateLegalPageGuarded(ctx context.Context, db *gorm.DB, id string, expectedVersion int, fields map[string]any) error {
	updates := withVersionBump(fields, expectedVersion+1)
	res := db.WithContext(ctx).
		Model(&domain.LegalPage{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Zero rows: distinguish a vanished row from a lost race.
	var n int64
	if err := db.WithContext(ctx).
		Model(&domain.LegalPage{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return ErrStaleVersion
}

// MarkDeletedOnShopify flags a page whose remote counterpart disappeared:
// status moves to deleted_on_shopify and the remote reference is cleared.
// Unguarded: remote-deletion detection must never lose to a concurrent edit.
func MarkDeletedOnShopify(ctx context.Context, db *gorm.DB, id string) error {
	return UpdateLegalPage(ctx, db, id, map[string]any{
		"status":          domain.StatusDeletedOnShopify,
		"shopify_page_id": nil,
	})
}

func withVersionBump(fields map[string]any, version any) map[string]any {
	updates := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = version
	updates["updated_at"] = time.Now().UTC()
	return updates
}

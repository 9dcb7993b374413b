// Package repo implements the data persistence layer for stores and legal
// pages, backed by GORM. This file provides repository functions for the
// Store (tenant) model.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marutto-legal/go-legal-pages/internal/domain"
)

// GetStoreByDomain fetches a store by its shop domain, or ErrNotFound.
func GetStoreByDomain(ctx context.Context, db *gorm.DB, shopDomain string) (*domain.Store, error) {
	var s domain.Store
	err := db.WithContext(ctx).
		Where("shop_domain = ?", shopDomain).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// EnsureStore returns the store for shopDomain, creating it on first sight.
// Concurrent first requests from the same shop may race on the insert; the
// loser of the unique-constraint race re-reads the winner's row.
func EnsureStore(ctx context.Context, db *gorm.DB, shopDomain string) (*domain.Store, error) {
	shopDomain = strings.ToLower(strings.TrimSpace(shopDomain))
	if shopDomain == "" {
		return nil, errors.New("empty shop domain")
	}

	if s, err := GetStoreByDomain(ctx, db, shopDomain); err == nil {
		return s, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	s := &domain.Store{
		ID:         uuid.NewString(),
		ShopDomain: shopDomain,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return GetStoreByDomain(ctx, db, shopDomain)
		}
		return nil, err
	}
	return s, nil
}

// DeleteStoreData erases a tenant and everything attached to it (GDPR
// shop-redact). Legal pages and idempotency records go in the same
// transaction; deleting an unknown shop is a no-op.
func DeleteStoreData(ctx context.Context, db *gorm.DB, shopDomain string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := GetStoreByDomain(ctx, tx, shopDomain)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", s.ID).Delete(&domain.LegalPage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", s.ID).Delete(&domain.Idempotency{}).Error; err != nil {
			return err
		}
		return tx.Delete(s).Error
	})
}

// isUniqueViolation recognizes unique-constraint failures from the pure-Go
// SQLite driver, which often reports them as plain-text errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}

// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file resolves the tenant for each request. Authentication (OAuth,
// session tokens) belongs to the embedding host app; by the time a request
// reaches this API the shop identity is trusted and travels in the
// X-Shop-Domain header. The middleware ensures a local store record exists
// and stashes both the shop domain and the store ID for handlers.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderShopDomain carries the trusted myshopify domain of the caller.
const HeaderShopDomain = "X-Shop-Domain"

// Context keys for the resolved tenant.
const (
	ctxKeyShopDomain = "shop.domain"
	ctxKeyStoreID    = "shop.storeID"
)

// EnsureStoreFunc resolves (creating on first touch) the store record for a
// shop domain and returns its ID.
type EnsureStoreFunc func(ctx context.Context, shopDomain string) (storeID string, err error)

// ShopDomainFrom returns the shop domain resolved by ShopResolver, or "".
func ShopDomainFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyShopDomain); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StoreIDFrom returns the store ID resolved by ShopResolver, or "".
func StoreIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyStoreID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// ShopResolver returns a Gin middleware that reads X-Shop-Domain, ensures a
// store record exists, and stashes the tenant in the request context.
//
// Behavior:
//   - Missing or malformed header: 401 (the host app always sends it).
//   - Store lookup/creation failure: 500.
//   - Domains are lowercased; the ensure function owns further normalization.
func ShopResolver(ensure EnsureStoreFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		shopDomain := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderShopDomain)))
		if shopDomain == "" || !strings.HasSuffix(shopDomain, ".myshopify.com") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "X-Shop-Domain required",
			})
			return
		}

		storeID, err := ensure(c.Request.Context(), shopDomain)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "internal_error",
				"message": "store resolution failed",
			})
			return
		}

		c.Set(ctxKeyShopDomain, shopDomain)
		c.Set(ctxKeyStoreID, storeID)
		c.Next()
	}
}

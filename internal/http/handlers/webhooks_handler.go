// Shopify webhook handlers.
//
// Webhooks arrive from Shopify, not from the embedded admin, so they bypass
// the tenant middleware and authenticate via the X-Shopify-Hmac-Sha256
// signature instead. Shopify retries failed deliveries; handlers must be
// idempotent.
package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/marutto-legal/go-legal-pages/internal/http/middleware"
)

// WebhookHandlers serves Shopify compliance webhooks.
type WebhookHandlers struct {
	// Secret is the app's webhook signing secret.
	Secret string
	// Redact erases all persisted data for a shop. Unknown shops are a
	// no-op so redelivery stays idempotent.
	Redact func(ctx context.Context, shopDomain string) error
}

// shopRedactPayload is the body of the shop/redact compliance topic.
type shopRedactPayload struct {
	ShopDomain string `json:"shop_domain"`
}

// verifyWebhookHMAC checks the base64 HMAC-SHA256 signature over the raw
// body in constant time.
func verifyWebhookHMAC(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// ShopRedact handles the shop/redact GDPR topic: Shopify requests erasure of
// everything stored for an uninstalled shop. On success the response is 200
// with an empty body, which stops redelivery.
func (w *WebhookHandlers) ShopRedact(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable body")
		return
	}

	if !verifyWebhookHMAC(w.Secret, body, c.GetHeader("X-Shopify-Hmac-Sha256")) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid webhook signature")
		return
	}

	var payload shopRedactPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid payload")
		return
	}
	shopDomain := strings.ToLower(strings.TrimSpace(payload.ShopDomain))
	if shopDomain == "" {
		shopDomain = strings.ToLower(strings.TrimSpace(c.GetHeader("X-Shopify-Shop-Domain")))
	}
	if shopDomain == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "shop_domain required")
		return
	}

	if err := w.Redact(c.Request.Context(), shopDomain); err != nil {
		// Non-200 makes Shopify retry, which is what we want here.
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "redaction failed")
		return
	}

	middleware.LoggerFrom(c).Info().Str("shop_domain", shopDomain).Msg("shop data redacted")
	c.Status(http.StatusOK)
}

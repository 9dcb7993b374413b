// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides SecurityHeaders, a hardening middleware tuned for an API
// that backs an embedded Shopify admin app. The admin UI lives inside an
// iframe under admin.shopify.com, so frame protection uses a CSP
// frame-ancestors allowlist instead of X-Frame-Options: DENY, which would
// break embedding outright.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityOptions configures the headers emitted by SecurityHeaders.
//
// EnableHSTS controls whether to emit Strict-Transport-Security for HTTPS
// requests (never for plain HTTP). Only enable when traffic is HTTPS
// end-to-end, including between proxy and app. HSTSMaxAge defaults to 180
// days when unset.
//
// FrameAncestors lists the origins allowed to embed responses. Empty means
// the standard Shopify admin pair (https://admin.shopify.com plus the
// merchant's *.myshopify.com domains).
//
// NoStore adds Cache-Control: no-store for sensitive responses. EnablePolicy
// adds Permissions-Policy and related browser feature restrictions; both are
// harmless for non-browser clients.
type SecurityOptions struct {
	EnableHSTS     bool
	HSTSMaxAge     time.Duration
	FrameAncestors []string
	NoStore        bool
	EnablePolicy   bool
}

// shopifyFrameAncestors is the default embed allowlist for apps rendered
// inside the Shopify admin.
var shopifyFrameAncestors = []string{
	"https://admin.shopify.com",
	"https://*.myshopify.com",
}

// SecurityHeaders returns a Gin middleware that attaches security headers to
// every response.
//
// Always set:
//
//	X-Content-Type-Options: nosniff
//	Referrer-Policy: no-referrer
//	Content-Security-Policy: frame-ancestors <allowlist>
//
// Conditionally set: Permissions-Policy (EnablePolicy), Cache-Control
// no-store trio (NoStore), and Strict-Transport-Security (EnableHSTS and the
// request actually arrived over HTTPS, directly or via X-Forwarded-Proto).
// X-Request-ID, when present, is appended to Access-Control-Expose-Headers
// so the admin UI can surface it in error reports.
func SecurityHeaders(opt SecurityOptions) gin.HandlerFunc {
	maxAge := int(opt.HSTSMaxAge.Seconds())
	if maxAge <= 0 {
		maxAge = int((180 * 24 * time.Hour).Seconds())
	}

	ancestors := opt.FrameAncestors
	if len(ancestors) == 0 {
		ancestors = shopifyFrameAncestors
	}
	frameCSP := "frame-ancestors " + strings.Join(ancestors, " ")

	return func(c *gin.Context) {
		h := c.Writer.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		// frame-ancestors supersedes X-Frame-Options; DENY would break the
		// embedded admin iframe.
		h.Set("Content-Security-Policy", frameCSP)

		if opt.EnablePolicy {
			h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
		}

		if opt.NoStore {
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
			h.Set("Expires", "0")
		}

		// Never advertise HSTS on plain-HTTP traffic.
		if opt.EnableHSTS && isHTTPS(c.Request) {
			h.Set("Strict-Transport-Security",
				"max-age="+strconv.Itoa(maxAge)+"; includeSubDomains; preload")
		}

		if rid := h.Get("X-Request-ID"); rid != "" {
			const hdr = "Access-Control-Expose-Headers"
			cur := h.Get(hdr)
			switch {
			case cur == "":
				h.Set(hdr, "X-Request-ID")
			case !strings.Contains(cur, "X-Request-ID"):
				h.Set(hdr, cur+", X-Request-ID")
			}
		}

		c.Next()
	}
}

// isHTTPS reports whether the request used HTTPS either directly or via a
// reverse proxy that set X-Forwarded-Proto: https.
func isHTTPS(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

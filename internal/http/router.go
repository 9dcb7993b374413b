// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/marutto-legal/go-legal-pages/internal/config"
	"github.com/marutto-legal/go-legal-pages/internal/crypto"
	"github.com/marutto-legal/go-legal-pages/internal/http/handlers"
	"github.com/marutto-legal/go-legal-pages/internal/http/middleware"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/repo"
	"github.com/marutto-legal/go-legal-pages/internal/services"
	"github.com/marutto-legal/go-legal-pages/internal/shopify"
)

// Deps carries the externally constructed dependencies the router wires
// together. The Shopify client is injected as its narrow interfaces so tests
// can substitute fakes.
type Deps struct {
	DB      *gorm.DB
	Codec   *crypto.Codec
	Catalog *registry.Catalog
	Pages   shopify.PageAPI
	Menus   handlers.MenuAPI
	Conf    handlers.ConfirmationService
	Plans   services.PlanChecker
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned merchant API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip compression
//  6. Metrics
//  7. CORS and Security headers
//
// Then, inside the /api group only:
//  8. ShopResolver (tenant identity; webhooks authenticate via HMAC instead
//     and stay outside the group)
//  9. Idempotency validator (needs the tenant; before the rate limiter so
//     replays bypass it)
//  10. Rate limiter (per shop/IP)
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// Compress responses; /metrics stays uncompressed for scrapers.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	corsHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.HeaderShopDomain, middleware.HeaderIdempotencyKey,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     corsHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: services ← repo/db/client
	plans := deps.Plans
	if plans == nil {
		plans = services.AllowAllPlans{}
	}
	pageSvc := &services.PageService{
		DB:             deps.DB,
		Codec:          deps.Codec,
		Catalog:        deps.Catalog,
		Pages:          deps.Pages,
		Plans:          plans,
		MaxFormBytes:   cfg.MaxFormBytes,
		IdempotencyTTL: cfg.IdempotencyTTL,
	}
	updSvc := &services.TemplateUpdateService{
		DB:      deps.DB,
		Codec:   deps.Codec,
		Catalog: deps.Catalog,
		Pages:   deps.Pages,
	}
	h := handlers.New(pageSvc, updSvc, deps.Conf, deps.Menus, deps.Catalog)

	// Compliance webhooks: HMAC-authenticated, outside the tenant group.
	wh := &handlers.WebhookHandlers{
		Secret: cfg.Shopify.WebhookSecret,
		Redact: func(ctx context.Context, shopDomain string) error {
			return repo.DeleteStoreData(ctx, deps.DB, shopDomain)
		},
	}
	r.POST("/webhooks/shop-redact", wh.ShopRedact)

	// Merchant API: every route is tenant-scoped. Idempotency and rate
	// limiting live here rather than on the global chain because both key
	// off the resolved tenant; the replay bypass keeps working because the
	// validator runs before the limiter.
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.ShopResolver(func(ctx context.Context, shopDomain string) (string, error) {
		store, err := repo.EnsureStore(ctx, deps.DB, shopDomain)
		if err != nil {
			return "", err
		}
		return store.ID, nil
	}))
	api.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, storeID, pageType, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, deps.DB, storeID, pageType, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByShopOrIP())
	api.Use(rl.Handler())
	{
		// Pages
		api.GET("/pages", h.ListPages)
		api.GET("/pages/:pageType", h.GetPage)
		api.PUT("/pages/:pageType/draft", h.SaveDraft)
		api.POST("/pages/:pageType/validate", h.ValidateStep)
		api.POST("/pages/:pageType/publish", h.Publish)
		api.POST("/pages/:pageType/template-update", h.ApplyTemplateUpdate)
		api.POST("/pages/:pageType/menu-link", h.AddMenuLink)

		// Checkout confirmation block
		api.GET("/confirmation", h.GetConfirmation)
		api.PUT("/confirmation", h.SaveConfirmation)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

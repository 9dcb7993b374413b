package httpapi

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marutto-legal/go-legal-pages/internal/config"
	"github.com/marutto-legal/go-legal-pages/internal/crypto"
	"github.com/marutto-legal/go-legal-pages/internal/domain"
	"github.com/marutto-legal/go-legal-pages/internal/http/middleware"
	"github.com/marutto-legal/go-legal-pages/internal/pagetypes"
	"github.com/marutto-legal/go-legal-pages/internal/registry"
	"github.com/marutto-legal/go-legal-pages/internal/shopify"
	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

const routerTestKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// --- fakes for the Shopify-facing interfaces ---

type fakePageAPI struct{}

func (fakePageAPI) CreatePage(context.Context, shopify.CreatePageInput) (*shopify.CreatePageResult, error) {
	return &shopify.CreatePageResult{PageID: "gid://shopify/Page/1", Handle: "legal"}, nil
}
func (fakePageAPI) UpdatePage(context.Context, string, shopify.UpdatePageInput) error { return nil }
func (fakePageAPI) GetPage(context.Context, string) (*shopify.Page, error) {
	return &shopify.Page{ID: "gid://shopify/Page/1"}, nil
}

type fakeMenuAPI struct{}

func (fakeMenuAPI) GetMenus(context.Context) ([]shopify.Menu, error) { return nil, nil }
func (fakeMenuAPI) AddPageToMenu(context.Context, string, string, string) error {
	return nil
}

type fakeConfAPI struct{}

func (fakeConfAPI) Save(context.Context, []byte) (*validation.ConfirmationForm, validation.FieldErrors, error) {
	return &validation.ConfirmationForm{}, nil, nil
}
func (fakeConfAPI) Get(context.Context) (*validation.ConfirmationForm, error) {
	f := validation.ConfirmationDefaults()
	return &f, nil
}

// --- test DB helper (pure-Go sqlite, no CGO) ---

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:routerdb?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Store{}, &domain.LegalPage{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestDeps(t *testing.T) Deps {
	t.Helper()
	codec, err := crypto.NewCodec(routerTestKey)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	cat := registry.NewCatalog()
	if err := pagetypes.RegisterAll(cat); err != nil {
		t.Fatalf("page types: %v", err)
	}
	return Deps{
		DB:      newTestDB(t),
		Codec:   codec,
		Catalog: cat,
		Pages:   fakePageAPI{},
		Menus:   fakeMenuAPI{},
		Conf:    fakeConfAPI{},
	}
}

func baseConfig() config.Config {
	return config.Config{
		APIBasePath:    "/api/v1",
		RateRPS:        100,
		RateBurst:      10,
		MaxFormBytes:   100_000,
		IdempotencyTTL: 24 * time.Hour,
		CORS:           config.CORSConfig{AllowedOrigins: nil}, // AllowAllOrigins branch
		Security:       config.SecurityConfig{EnableHSTS: false},
		OTEL:           config.OTELConfig{ServiceName: "test-svc"},
		Shopify:        config.ShopifyConfig{WebhookSecret: "whsec"},
	}
}

func TestRegisterRoutes_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDeps(t), baseConfig())

	// /health works
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404 with the standard envelope
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound || !strings.Contains(w.Body.String(), "not_found") {
		t.Fatalf("GET /nope: code=%d body=%s", w.Code, w.Body.String())
	}

	// NoMethod → 405 (POST /health)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_TenantRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDeps(t), baseConfig())

	// Without X-Shop-Domain the merchant API is unreachable.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without tenant header, got %d", w.Code)
	}

	// With it the full round trip works: resolver creates the store and the
	// dashboard listing returns all registered page types.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/pages", nil)
	req.Header.Set(middleware.HeaderShopDomain, "router-test.myshopify.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/pages = %d, body = %s", w.Code, w.Body.String())
	}
	for _, pt := range []string{"tokushoho", "privacy", "terms", "return"} {
		if !strings.Contains(w.Body.String(), pt) {
			t.Errorf("listing missing %q: %s", pt, w.Body.String())
		}
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := baseConfig()
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}
	RegisterRoutes(r, newTestDeps(t), cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Fatalf("expected origin echo, got %q", got)
	}
}

func TestRegisterRoutes_ShopRedactWebhook(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	deps := newTestDeps(t)
	cfg := baseConfig()
	RegisterRoutes(r, deps, cfg)

	body := []byte(`{"shop_domain":"gone.myshopify.com"}`)
	mac := hmac.New(sha256.New, []byte(cfg.Shopify.WebhookSecret))
	mac.Write(body)
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	// Valid signature → 200 even for unknown shops (idempotent redelivery).
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/shop-redact", strings.NewReader(string(body)))
	req.Header.Set("X-Shopify-Hmac-Sha256", sig)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("webhook with valid HMAC = %d, body = %s", w.Code, w.Body.String())
	}

	// Tampered signature → 401.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/webhooks/shop-redact", strings.NewReader(string(body)))
	req.Header.Set("X-Shopify-Hmac-Sha256", "bm90LXRoZS1yaWdodC1tYWM=")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("webhook with bad HMAC = %d", w.Code)
	}
}

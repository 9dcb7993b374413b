package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

const validKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("ENCRYPTION_KEY", validKey)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("ENCRYPTION_KEY", validKey)
	t.Setenv("MAX_FORM_BYTES", "50000")

	// Shopify
	t.Setenv("SHOPIFY_SHOP_DOMAIN", " Example.MyShopify.com ")
	t.Setenv("SHOPIFY_ACCESS_TOKEN", "shpat_xxx")
	t.Setenv("SHOPIFY_API_VERSION", "2025-07")
	t.Setenv("SHOPIFY_WEBHOOK_SECRET", "whsec")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging fields unexpected: %+v", cfg)
	}

	// App
	if cfg.DBPath != "db.sqlite" || cfg.EncryptionKey != validKey || cfg.MaxFormBytes != 50000 {
		t.Fatalf("app fields unexpected: %+v", cfg)
	}

	// Shopify (domain lowercased and trimmed)
	if cfg.Shopify.ShopDomain != "example.myshopify.com" ||
		cfg.Shopify.AccessToken != "shpat_xxx" ||
		cfg.Shopify.APIVersion != "2025-07" ||
		cfg.Shopify.WebhookSecret != "whsec" {
		t.Fatalf("shopify fields unexpected: %+v", cfg.Shopify)
	}

	// Rate limiting fell back to defaults on parse failure
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate fields unexpected: %+v", cfg)
	}

	// CSV parsing trims and drops empties
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %v", cfg.CORS.AllowedOrigins)
	}

	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security fields unexpected: %+v", cfg.Security)
	}
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure ||
		cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel fields unexpected: %+v", cfg.OTEL)
	}
}

// --- Encryption key validation ---

func TestLoad_EncryptionKeyValidation(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want string
	}{
		{"missing", "", "ENCRYPTION_KEY is required"},
		{"short", "abcd", "64 hex characters"},
		{"nonhex", strings.Repeat("zz", 32), "valid hex"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENCRYPTION_KEY", tc.key)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		t.Setenv("ENCRYPTION_KEY", validKey)
		if _, err := Load(); err != nil {
			t.Fatalf("Load() error: %v", err)
		}
	})
}

// --- Validation failures ---

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"zero form cap", map[string]string{"MAX_FORM_BYTES": "0"}, "MAX_FORM_BYTES"},
		{"negative rps", map[string]string{"RATE_RPS": "-1"}, "RATE_RPS"},
		{"zero burst", map[string]string{"RATE_BURST": "0"}, "RATE_BURST"},
		{"bad sample ratio", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "3"}, "OTEL_TRACES_SAMPLER_ARG"},
		{"zero idempotency ttl", map[string]string{"IDEMPOTENCY_TTL": "-1s"}, "IDEMPOTENCY_TTL"},
		{"negative retries", map[string]string{"SHOPIFY_MAX_RETRIES": "-1"}, "SHOPIFY_MAX_RETRIES"},
		{"negative retry delay", map[string]string{"SHOPIFY_BASE_DELAY": "-1s"}, "SHOPIFY_BASE_DELAY"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ENCRYPTION_KEY", validKey)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":         "/",
		"/":        "/",
		"api":      "/api",
		"/api/v1/": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

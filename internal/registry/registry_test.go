package registry

import (
	"testing"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

func testConfig(pageType string) *Config {
	return &Config{
		Type:             pageType,
		Title:            "テストページ作成",
		ShopifyPageTitle: "テストページ",
		Handle:           "test-page",
		Validate: func(raw []byte) (any, validation.FieldErrors, error) {
			return struct{}{}, nil, nil
		},
		GenerateHTML: func(form any) string { return "<div></div>" },
	}
}

func TestCatalogRegisterAndGet(t *testing.T) {
	cat := NewCatalog()
	if err := cat.Register(testConfig("tokushoho")); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := cat.Register(testConfig("privacy")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cfg, ok := cat.Get("tokushoho")
	if !ok || cfg.Handle != "test-page" {
		t.Fatalf("Get returned %+v, %v", cfg, ok)
	}
	if !cat.IsValid("privacy") {
		t.Error("IsValid(privacy) = false")
	}
	if cat.IsValid("unknown") {
		t.Error("IsValid(unknown) = true")
	}

	all := cat.All()
	if len(all) != 2 || all[0].Type != "tokushoho" || all[1].Type != "privacy" {
		t.Errorf("All() not in registration order: %v", all)
	}
}

func TestCatalogReregisterReplaces(t *testing.T) {
	cat := NewCatalog()
	if err := cat.Register(testConfig("tokushoho")); err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated := testConfig("tokushoho")
	updated.TemplateVersion = 2
	if err := cat.Register(updated); err != nil {
		t.Fatalf("re-register: %v", err)
	}

	cfg, _ := cat.Get("tokushoho")
	if cfg.TemplateVersion != 2 {
		t.Errorf("re-registration did not replace config: %+v", cfg)
	}
	if got := len(cat.All()); got != 1 {
		t.Errorf("All() has %d entries after re-register, want 1", got)
	}
}

func TestCatalogRejectsIncomplete(t *testing.T) {
	cat := NewCatalog()

	cfg := testConfig("x")
	cfg.Validate = nil
	if err := cat.Register(cfg); err == nil {
		t.Error("expected missing validator to fail")
	}

	cfg = testConfig("y")
	cfg.GenerateHTML = nil
	if err := cat.Register(cfg); err == nil {
		t.Error("expected missing generator to fail")
	}

	cfg = testConfig("")
	if err := cat.Register(cfg); err == nil {
		t.Error("expected missing type to fail")
	}
}

func TestCurrentVersionDefaultsToOne(t *testing.T) {
	cfg := testConfig("z")
	if v := cfg.CurrentVersion(); v != 1 {
		t.Errorf("CurrentVersion() = %d, want 1", v)
	}
	cfg.TemplateVersion = 3
	if v := cfg.CurrentVersion(); v != 3 {
		t.Errorf("CurrentVersion() = %d, want 3", v)
	}
}

func TestNeedsUpdateAndChangesSince(t *testing.T) {
	cfg := testConfig("z")
	cfg.TemplateVersion = 3
	cfg.VersionHistory = []VersionEntry{
		{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		{Version: 2, Date: "2026-04-01", Summary: "表記の見直し"},
		{Version: 3, Date: "2026-06-15", Summary: "項目追加"},
	}

	if !cfg.NeedsUpdate(1) {
		t.Error("NeedsUpdate(1) = false")
	}
	if cfg.NeedsUpdate(3) {
		t.Error("NeedsUpdate(3) = true")
	}

	changes := cfg.ChangesSince(1)
	if len(changes) != 2 || changes[0].Version != 2 || changes[1].Version != 3 {
		t.Errorf("ChangesSince(1) = %v", changes)
	}
	if got := cfg.ChangesSince(3); got != nil {
		t.Errorf("ChangesSince(3) = %v, want nil", got)
	}
}

func TestCatalogPendingUpdates(t *testing.T) {
	cat := NewCatalog()
	cfg := testConfig("tokushoho")
	cfg.TemplateVersion = 3
	cfg.VersionHistory = []VersionEntry{
		{Version: 3, Date: "2026-06-15", Summary: "項目追加"},
		{Version: 1, Date: "2026-02-27", Summary: "初期バージョン"},
		{Version: 2, Date: "2026-04-01", Summary: "表記の見直し"},
	}
	if err := cat.Register(cfg); err != nil {
		t.Fatalf("Register: %v", err)
	}

	all := cat.PendingUpdates("tokushoho", 0)
	if len(all) != 3 || all[0].Version != 1 || all[2].Version != 3 {
		t.Errorf("PendingUpdates(0) not ascending: %v", all)
	}
	if got := cat.PendingUpdates("tokushoho", 3); len(got) != 0 {
		t.Errorf("PendingUpdates(current) = %v, want empty", got)
	}
	if got := cat.PendingUpdates("unknown", 0); len(got) != 0 {
		t.Errorf("PendingUpdates(unknown) = %v, want empty", got)
	}
}

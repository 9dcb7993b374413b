package pagetypes

import (
	"strings"
	"testing"

	"github.com/marutto-legal/go-legal-pages/internal/registry"
)

func TestRegisterAll(t *testing.T) {
	cat := registry.NewCatalog()
	if err := RegisterAll(cat); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}

	for _, pt := range []string{Tokushoho, Privacy, Terms, Return} {
		if !cat.IsValid(pt) {
			t.Errorf("page type %s not registered", pt)
		}
	}
	if got := len(cat.All()); got != 4 {
		t.Errorf("registered %d page types, want 4", got)
	}
}

func TestRegisterAllIsIdempotent(t *testing.T) {
	cat := registry.NewCatalog()
	if err := RegisterAll(cat); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if err := RegisterAll(cat); err != nil {
		t.Fatalf("second RegisterAll: %v", err)
	}
	if got := len(cat.All()); got != 4 {
		t.Errorf("re-registration duplicated entries: %d", got)
	}
}

func TestTokushohoEndToEnd(t *testing.T) {
	cat := registry.NewCatalog()
	if err := RegisterAll(cat); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	cfg, _ := cat.Get(Tokushoho)

	payload := `{
		"businessName": "株式会社マルット",
		"representativeName": "山田太郎",
		"postalCode": "1500001",
		"address": "東京都渋谷区神宮前1-2-3",
		"phone": "03-1234-5678",
		"email": "info@example.com",
		"businessType": "corporation",
		"addressDisclosure": "public",
		"sellingPrice": "各商品ページに記載",
		"additionalFees": "送料全国一律500円",
		"paymentMethods": ["credit_card"],
		"paymentTiming": "ご注文時にお支払い",
		"deliveryTime": "3〜7営業日以内に発送",
		"returnPolicy": "商品到着後7日以内",
		"returnDeadline": "商品到着後7日以内",
		"returnShippingCost": "お客様負担",
		"defectiveItemPolicy": "当店負担にて交換いたします"
	}`

	form, ferrs, err := cfg.Validate([]byte(payload))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("field errors: %v", ferrs)
	}

	html := cfg.GenerateHTML(cfg.NormalizeForm(form))
	if !strings.Contains(html, "〒150-0001") {
		t.Error("normalized postal code missing from generated HTML")
	}
	if !strings.Contains(html, "特定商取引法に基づく表記") {
		t.Error("page heading missing")
	}
}

func TestHandlesAreUnique(t *testing.T) {
	cat := registry.NewCatalog()
	if err := RegisterAll(cat); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	seen := map[string]bool{}
	for _, cfg := range cat.All() {
		if seen[cfg.Handle] {
			t.Errorf("duplicate handle %q", cfg.Handle)
		}
		seen[cfg.Handle] = true
	}
}

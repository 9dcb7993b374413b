package validation

import (
	"strings"
	"testing"
)

func validTokushohoJSON() string {
	return `{
		"businessName": "株式会社マルット",
		"representativeName": "山田太郎",
		"postalCode": "150-0001",
		"address": "東京都渋谷区神宮前1-2-3",
		"phone": "03-1234-5678",
		"email": "info@example.com",
		"businessType": "corporation",
		"addressDisclosure": "public",
		"sellingPrice": "各商品ページに記載",
		"additionalFees": "送料全国一律500円",
		"paymentMethods": ["credit_card", "convenience_store"],
		"paymentTiming": "ご注文時にお支払い",
		"deliveryTime": "3〜7営業日以内に発送",
		"returnPolicy": "商品到着後7日以内",
		"returnDeadline": "商品到着後7日以内",
		"returnShippingCost": "お客様負担",
		"defectiveItemPolicy": "当店負担にて交換いたします"
	}`
}

func TestValidateTokushoho(t *testing.T) {
	form, ferrs, err := ValidateTokushoho([]byte(validTokushohoJSON()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}
	if form.BusinessName != "株式会社マルット" {
		t.Errorf("businessName = %q", form.BusinessName)
	}
	if len(form.PaymentMethods) != 2 {
		t.Errorf("paymentMethods = %v", form.PaymentMethods)
	}
}

func TestValidateTokushohoMissingFields(t *testing.T) {
	_, ferrs, err := ValidateTokushoho([]byte(`{"businessName": ""}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ferrs["businessName"] != "事業者名を入力してください" {
		t.Errorf("businessName message = %q", ferrs["businessName"])
	}
	if _, ok := ferrs["paymentMethods"]; !ok {
		t.Error("expected paymentMethods error")
	}
}

func TestValidateTokushohoBadPostalCode(t *testing.T) {
	payload := strings.Replace(validTokushohoJSON(), "150-0001", "abc", 1)
	_, ferrs, err := ValidateTokushoho([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ferrs["postalCode"]; !ok {
		t.Errorf("expected postalCode error, got %v", ferrs)
	}
}

func TestValidateTokushohoMalformedJSON(t *testing.T) {
	_, _, err := ValidateTokushoho([]byte(`{not json`))
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateTokushohoStep(t *testing.T) {
	step1 := `{
		"businessName": "個人事業主",
		"representativeName": "佐藤花子",
		"postalCode": "1000001",
		"address": "東京都千代田区1-1",
		"phone": "090-1234-5678",
		"email": "hanako@example.com",
		"businessType": "individual",
		"addressDisclosure": "on_request"
	}`
	ferrs, err := ValidateTokushohoStep(1, []byte(step1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}

	// Step 1 must not demand step 2 fields.
	ferrs, err = ValidateTokushohoStep(1, []byte(`{}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ferrs["sellingPrice"]; ok {
		t.Error("step 1 validated a step 2 field")
	}
}

func TestValidatePrivacy(t *testing.T) {
	payload := `{
		"businessName": "株式会社マルット",
		"representativeName": "山田太郎",
		"address": "東京都渋谷区神宮前1-2-3",
		"email": "info@example.com",
		"siteUrl": "https://example.com",
		"collectedInfo": ["name", "email"],
		"purposeOfUse": ["order_processing"],
		"thirdPartySharing": "none",
		"useCookies": "yes",
		"cookieDetail": "カート機能のために使用します",
		"useAnalytics": "no",
		"retentionPeriod": "退会後1年間",
		"securityMeasures": "SSL暗号化通信を使用しています",
		"contactMethod": "メールにてご連絡ください"
	}`
	form, ferrs, err := ValidatePrivacy([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}
	if form.ThirdPartySharing != "none" {
		t.Errorf("thirdPartySharing = %q", form.ThirdPartySharing)
	}
}

func TestValidatePrivacyBadURL(t *testing.T) {
	_, ferrs, err := ValidatePrivacy([]byte(`{"siteUrl": "not-a-url"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ferrs["siteUrl"] != "正しいURLを入力してください（例: https://example.com）" {
		t.Errorf("siteUrl message = %q", ferrs["siteUrl"])
	}
}

func TestValidateTermsJurisdictionOther(t *testing.T) {
	base := `{
		"businessName": "株式会社マルット",
		"serviceName": "マルットストア",
		"siteUrl": "https://example.com",
		"email": "info@example.com",
		"registrationRequirement": "登録は不要です",
		"prohibitedActions": ["illegal", "impersonation"],
		"intellectualProperty": "本サービスに関する知的財産権は当社に帰属します",
		"disclaimer": "当社は一切の責任を負いません",
		"serviceInterruption": "事前の通知なくサービスを中断することがあります",
		"termsChangePolicy": "当社は本規約を変更できるものとします",
		"contactMethod": "メールにてご連絡ください",
		"jurisdiction": "other",
		"jurisdictionOther": %q
	}`
	_, ferrs, err := ValidateTerms([]byte(strings.Replace(base, "%q", `""`, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := ferrs["jurisdictionOther"]; !ok {
		t.Error("expected jurisdictionOther required when jurisdiction is other")
	}

	_, ferrs, err = ValidateTerms([]byte(strings.Replace(base, "%q", `"横浜地方裁判所"`, 1)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}
}

func TestValidateReturnNoReturnsSkipsConditionals(t *testing.T) {
	payload := `{
		"businessName": "株式会社マルット",
		"email": "info@example.com",
		"phone": "03-1234-5678",
		"siteUrl": "https://example.com",
		"returnCondition": "no_returns",
		"shippingCost": "customer",
		"exchangePolicy": "unavailable",
		"refundMethod": "original_payment",
		"contactMethod": "メールにてご連絡ください"
	}`
	_, ferrs, err := ValidateReturn([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}
}

func TestValidateReturnRequiresConditionals(t *testing.T) {
	payload := `{
		"businessName": "株式会社マルット",
		"email": "info@example.com",
		"phone": "03-1234-5678",
		"siteUrl": "https://example.com",
		"returnCondition": "both",
		"shippingCost": "store",
		"exchangePolicy": "available",
		"refundMethod": "bank_transfer",
		"contactMethod": "メールにてご連絡ください"
	}`
	_, ferrs, err := ValidateReturn([]byte(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, field := range []string{"returnDeadline", "refundTiming", "defectiveHandling", "returnProcess"} {
		if _, ok := ferrs[field]; !ok {
			t.Errorf("expected %s to be required when returns are accepted", field)
		}
	}
}

func TestValidateConfirmation(t *testing.T) {
	// Disabled: empty text fields are allowed.
	_, ferrs, err := ValidateConfirmation([]byte(`{"enabled": false}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ferrs) != 0 {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}

	// Enabled: every display text becomes mandatory.
	_, ferrs, err = ValidateConfirmation([]byte(`{"enabled": true}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ferrs["quantityText"] != "分量に関する表示内容を入力してください" {
		t.Errorf("quantityText message = %q", ferrs["quantityText"])
	}
	if len(ferrs) != 7 {
		t.Errorf("expected 7 field errors, got %d: %v", len(ferrs), ferrs)
	}
}

func TestNormalizePostalCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1500001", "150-0001"},
		{"150-0001", "150-0001"},
		{"１５００００１", "150-0001"},
		{" 150-0001 ", "150-0001"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := NormalizePostalCode(tt.in); got != tt.want {
			t.Errorf("NormalizePostalCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("０３－１２３４－５６７８"); got != "03-1234-5678" {
		t.Errorf("NormalizePhone = %q", got)
	}
}

func TestLabelFor(t *testing.T) {
	if got := LabelFor(PaymentMethods, "credit_card"); got != "クレジットカード" {
		t.Errorf("LabelFor = %q", got)
	}
	if got := LabelFor(PaymentMethods, "unknown"); got != "unknown" {
		t.Errorf("LabelFor fallback = %q", got)
	}
}

// Privacy policy (プライバシーポリシー) form schemas.
package validation

// CollectedInfoOptions are the selectable categories of collected personal
// information.
var CollectedInfoOptions = []Option{
	{Value: "name", Label: "氏名"},
	{Value: "email", Label: "メールアドレス"},
	{Value: "address", Label: "住所"},
	{Value: "phone", Label: "電話番号"},
	{Value: "birthday", Label: "生年月日"},
	{Value: "payment", Label: "決済情報（クレジットカード番号等）"},
	{Value: "purchase_history", Label: "購入履歴"},
	{Value: "ip_address", Label: "IPアドレス"},
	{Value: "cookie", Label: "Cookie情報"},
}

// PurposeOfUseOptions are the selectable purposes of use.
var PurposeOfUseOptions = []Option{
	{Value: "order_processing", Label: "ご注文の処理・配送"},
	{Value: "customer_support", Label: "お問い合わせへの対応"},
	{Value: "marketing", Label: "新商品・セール等のご案内"},
	{Value: "service_improvement", Label: "サービスの改善・開発"},
	{Value: "analytics", Label: "アクセス解析・統計情報の作成"},
	{Value: "legal", Label: "法令に基づく対応"},
	{Value: "fraud_prevention", Label: "不正行為の防止"},
}

// PrivacyStep1 is the basic-information step.
type PrivacyStep1 struct {
	BusinessName       string `json:"businessName"       validate:"required,max=500"`
	RepresentativeName string `json:"representativeName" validate:"required,max=500"`
	Address            string `json:"address"            validate:"required,max=500"`
	Email              string `json:"email"              validate:"required,email"`
	SiteURL            string `json:"siteUrl"            validate:"required,url,max=500"`
}

// PrivacyStep2 is the collection-and-use step.
type PrivacyStep2 struct {
	CollectedInfo           []string `json:"collectedInfo"           validate:"required,min=1"`
	CollectedInfoOther      string   `json:"collectedInfoOther"      validate:"max=2000"`
	PurposeOfUse            []string `json:"purposeOfUse"            validate:"required,min=1"`
	PurposeOfUseOther       string   `json:"purposeOfUseOther"       validate:"max=2000"`
	ThirdPartySharing       string   `json:"thirdPartySharing"       validate:"required,oneof=none with_consent partial"`
	ThirdPartySharingDetail string   `json:"thirdPartySharingDetail" validate:"max=2000"`
	UseCookies              string   `json:"useCookies"              validate:"required,oneof=yes no"`
	CookieDetail            string   `json:"cookieDetail"            validate:"max=2000"`
	UseAnalytics            string   `json:"useAnalytics"            validate:"required,oneof=yes no"`
	AnalyticsTools          string   `json:"analyticsTools"          validate:"max=500"`
	RetentionPeriod         string   `json:"retentionPeriod"         validate:"required,max=500"`
	SecurityMeasures        string   `json:"securityMeasures"        validate:"required,max=2000"`
	ContactMethod           string   `json:"contactMethod"           validate:"required,max=2000"`
}

// PrivacyForm is the full privacy policy record (step 1 + step 2).
type PrivacyForm struct {
	PrivacyStep1
	PrivacyStep2
}

var privacyMessages = map[string]string{
	"businessName.required":       "事業者名を入力してください",
	"representativeName.required": "代表者名を入力してください",
	"address.required":            "住所を入力してください",
	"email.required":              "メールアドレスを入力してください",
	"email":                       "正しいメールアドレスを入力してください",
	"siteUrl.required":            "サイトURLを入力してください",
	"siteUrl":                     "正しいURLを入力してください（例: https://example.com）",
	"collectedInfo":               "収集する個人情報を1つ以上選択してください",
	"purposeOfUse":                "利用目的を1つ以上選択してください",
	"thirdPartySharing":           "第三者提供の方針を選択してください",
	"useCookies":                  "Cookie使用の有無を選択してください",
	"useAnalytics":                "アクセス解析ツールの使用を選択してください",
	"retentionPeriod.required":    "保存期間を入力してください",
	"securityMeasures.required":   "セキュリティ対策を入力してください",
	"contactMethod.required":      "問い合わせ方法を入力してください",
}

// ValidatePrivacy parses and validates a full privacy-policy payload.
func ValidatePrivacy(raw []byte) (*PrivacyForm, FieldErrors, error) {
	var form PrivacyForm
	if err := decode(raw, &form); err != nil {
		return nil, nil, err
	}
	if ferrs := collect(validate.Struct(&form), privacyMessages); len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	return &form, nil, nil
}

// ValidatePrivacyStep validates a single wizard step.
func ValidatePrivacyStep(step int, raw []byte) (FieldErrors, error) {
	switch step {
	case 1:
		var s PrivacyStep1
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), privacyMessages), nil
	case 2:
		var s PrivacyStep2
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), privacyMessages), nil
	default:
		_, ferrs, err := ValidatePrivacy(raw)
		return ferrs, err
	}
}

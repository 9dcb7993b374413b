// Return policy (返品・返金ポリシー) form schemas.
package validation

// ReturnConditionOptions are the selectable return conditions.
var ReturnConditionOptions = []Option{
	{Value: "unused_only", Label: "未使用・未開封のみ"},
	{Value: "defective_only", Label: "不良品のみ"},
	{Value: "both", Label: "両方対応（未使用・未開封および不良品）"},
	{Value: "no_returns", Label: "返品不可"},
}

// ShippingCostOptions are the selectable return-shipping cost policies.
var ShippingCostOptions = []Option{
	{Value: "customer", Label: "お客様負担"},
	{Value: "store", Label: "当店負担"},
	{Value: "defective_store", Label: "不良品は当店負担、それ以外はお客様負担"},
}

// ExchangeOptions are the selectable exchange policies.
var ExchangeOptions = []Option{
	{Value: "available", Label: "交換対応可能"},
	{Value: "unavailable", Label: "交換対応不可（返品・返金のみ）"},
	{Value: "defective_only", Label: "不良品のみ交換対応"},
}

// RefundMethodOptions are the selectable refund methods.
var RefundMethodOptions = []Option{
	{Value: "original_payment", Label: "元の支払方法に返金"},
	{Value: "bank_transfer", Label: "銀行振込"},
	{Value: "store_credit", Label: "ストアクレジット"},
	{Value: "flexible", Label: "お客様のご要望に応じて柔軟に対応"},
}

// ReturnStep1 is the basic-information step.
type ReturnStep1 struct {
	BusinessName string `json:"businessName" validate:"required,max=500"`
	Email        string `json:"email"        validate:"required,email"`
	Phone        string `json:"phone"        validate:"required,max=20,phonechars"`
	SiteURL      string `json:"siteUrl"      validate:"required,url,max=500"`
}

// ReturnStep2 is the return-conditions step. The deadline, refund timing,
// defective handling and process fields are mandatory unless returns are
// disabled entirely.
type ReturnStep2 struct {
	ReturnDeadline     string `json:"returnDeadline"     validate:"required_unless=ReturnCondition no_returns,max=500"`
	ReturnCondition    string `json:"returnCondition"    validate:"required,oneof=unused_only defective_only both no_returns"`
	ShippingCost       string `json:"shippingCost"       validate:"required,oneof=customer store defective_store"`
	ExchangePolicy     string `json:"exchangePolicy"     validate:"required,oneof=available unavailable defective_only"`
	RefundMethod       string `json:"refundMethod"       validate:"required,oneof=original_payment bank_transfer store_credit flexible"`
	RefundTiming       string `json:"refundTiming"       validate:"required_unless=ReturnCondition no_returns,max=500"`
	DefectiveHandling  string `json:"defectiveHandling"  validate:"required_unless=ReturnCondition no_returns,max=2000"`
	ReturnProcess      string `json:"returnProcess"      validate:"required_unless=ReturnCondition no_returns,max=2000"`
	NonReturnableItems string `json:"nonReturnableItems" validate:"max=2000"`
	ContactMethod      string `json:"contactMethod"      validate:"required,max=2000"`
}

// ReturnForm is the full return-policy record.
type ReturnForm struct {
	ReturnStep1
	ReturnStep2
}

var returnMessages = map[string]string{
	"businessName.required":      "事業者名を入力してください",
	"email.required":             "メールアドレスを入力してください",
	"email":                      "正しいメールアドレスを入力してください",
	"phone.required":             "電話番号を入力してください",
	"phone.max":                  "電話番号は20文字以内で入力してください",
	"phone":                      "正しい電話番号を入力してください",
	"siteUrl.required":           "サイトURLを入力してください",
	"siteUrl":                    "正しいURLを入力してください（例: https://example.com）",
	"returnDeadline":             "返品期限を入力してください",
	"returnCondition":            "返品条件を選択してください",
	"shippingCost":               "返送料負担を選択してください",
	"exchangePolicy":             "交換対応を選択してください",
	"refundMethod":               "返金方法を選択してください",
	"refundTiming":               "返金タイミングを入力してください",
	"defectiveHandling":          "不良品対応について入力してください",
	"returnProcess":              "返品手順を入力してください",
	"contactMethod.required":     "問い合わせ方法を入力してください",
}

// ValidateReturn parses and validates a full return-policy payload.
func ValidateReturn(raw []byte) (*ReturnForm, FieldErrors, error) {
	var form ReturnForm
	if err := decode(raw, &form); err != nil {
		return nil, nil, err
	}
	if ferrs := collect(validate.Struct(&form), returnMessages); len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	return &form, nil, nil
}

// ValidateReturnStep validates a single wizard step.
func ValidateReturnStep(step int, raw []byte) (FieldErrors, error) {
	switch step {
	case 1:
		var s ReturnStep1
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), returnMessages), nil
	case 2:
		var s ReturnStep2
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), returnMessages), nil
	default:
		_, ferrs, err := ValidateReturn(raw)
		return ferrs, err
	}
}

// Tokushoho (特定商取引法に基づく表記) form schemas.
//
// Step 1 collects the business information required by the Act on Specified
// Commercial Transactions; step 2 collects the sales conditions. The full
// schema is the union of both steps.
package validation

// PaymentMethods are the selectable payment options for the tokushoho page.
var PaymentMethods = []Option{
	{Value: "credit_card", Label: "クレジットカード"},
	{Value: "bank_transfer", Label: "銀行振込"},
	{Value: "convenience_store", Label: "コンビニ決済"},
	{Value: "cash_on_delivery", Label: "代金引換"},
	{Value: "deferred_payment", Label: "後払い決済"},
	{Value: "paypay", Label: "PayPay"},
	{Value: "amazon_pay", Label: "Amazon Pay"},
	{Value: "rakuten_pay", Label: "楽天ペイ"},
	{Value: "apple_pay", Label: "Apple Pay"},
	{Value: "google_pay", Label: "Google Pay"},
}

// TokushohoStep1 is the business-information step.
type TokushohoStep1 struct {
	BusinessName       string `json:"businessName"       validate:"required,max=500"`
	RepresentativeName string `json:"representativeName" validate:"required,max=500"`
	PostalCode         string `json:"postalCode"         validate:"required,jppostal"`
	Address            string `json:"address"            validate:"required,max=500"`
	Phone              string `json:"phone"              validate:"required,jpphone"`
	Email              string `json:"email"              validate:"required,email"`
	BusinessType       string `json:"businessType"       validate:"required,oneof=corporation individual"`
	AddressDisclosure  string `json:"addressDisclosure"  validate:"required,oneof=public on_request"`
}

// TokushohoStep2 is the sales-conditions step.
type TokushohoStep2 struct {
	SellingPrice        string   `json:"sellingPrice"        validate:"required,max=2000"`
	AdditionalFees      string   `json:"additionalFees"      validate:"required,max=2000"`
	PaymentMethods      []string `json:"paymentMethods"      validate:"required,min=1"`
	PaymentTiming       string   `json:"paymentTiming"       validate:"required,max=2000"`
	DeliveryTime        string   `json:"deliveryTime"        validate:"required,max=2000"`
	DeliveryNotes       string   `json:"deliveryNotes"       validate:"max=2000"`
	ReturnPolicy        string   `json:"returnPolicy"        validate:"required,max=2000"`
	ReturnDeadline      string   `json:"returnDeadline"      validate:"required,max=500"`
	ReturnShippingCost  string   `json:"returnShippingCost"  validate:"required,max=500"`
	DefectiveItemPolicy string   `json:"defectiveItemPolicy" validate:"required,max=2000"`
	QuantityLimit       string   `json:"quantityLimit"       validate:"max=500"`
}

// TokushohoForm is the full tokushoho record (step 1 + step 2).
type TokushohoForm struct {
	TokushohoStep1
	TokushohoStep2
}

var tokushohoMessages = map[string]string{
	"businessName.required":       "販売業者名を入力してください",
	"businessName":                "500文字以内で入力してください",
	"representativeName.required": "代表者名を入力してください",
	"representativeName":          "500文字以内で入力してください",
	"postalCode.required":         "郵便番号を入力してください",
	"postalCode":                  "正しい郵便番号を入力してください（例: 123-4567）",
	"address.required":            "住所を入力してください",
	"address":                     "500文字以内で入力してください",
	"phone.required":              "電話番号を入力してください",
	"phone":                       "正しい電話番号を入力してください（例: 03-1234-5678）",
	"email.required":              "メールアドレスを入力してください",
	"email":                       "正しいメールアドレスを入力してください",
	"businessType":                "事業者の種別を選択してください",
	"addressDisclosure":           "住所公開設定を選択してください",
	"sellingPrice":                "販売価格の記載方法を入力してください",
	"additionalFees":              "商品代金以外の必要料金を入力してください",
	"paymentMethods":              "支払方法を1つ以上選択してください",
	"paymentTiming":               "支払時期を入力してください",
	"deliveryTime":                "商品の引渡時期を入力してください",
	"deliveryNotes":               "2000文字以内で入力してください",
	"returnPolicy":                "返品・交換の条件を入力してください",
	"returnDeadline":              "返品期限を入力してください",
	"returnShippingCost":          "返品送料の負担について入力してください",
	"defectiveItemPolicy":         "商品の不良についての対応を入力してください",
	"quantityLimit":               "500文字以内で入力してください",
}

// ValidateTokushoho parses and validates a full tokushoho payload.
// A nil FieldErrors means the data is valid.
func ValidateTokushoho(raw []byte) (*TokushohoForm, FieldErrors, error) {
	var form TokushohoForm
	if err := decode(raw, &form); err != nil {
		return nil, nil, err
	}
	if ferrs := collect(validate.Struct(&form), tokushohoMessages); len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	return &form, nil, nil
}

// ValidateTokushohoStep validates a single wizard step. Steps outside [1,2]
// fall back to full-record validation.
func ValidateTokushohoStep(step int, raw []byte) (FieldErrors, error) {
	switch step {
	case 1:
		var s TokushohoStep1
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), tokushohoMessages), nil
	case 2:
		var s TokushohoStep2
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), tokushohoMessages), nil
	default:
		_, ferrs, err := ValidateTokushoho(raw)
		return ferrs, err
	}
}

// NormalizeTokushoho applies canonical formatting to validated data: postal
// codes gain their hyphen, phone numbers are trimmed and width-folded.
func NormalizeTokushoho(form *TokushohoForm) *TokushohoForm {
	out := *form
	out.PostalCode = NormalizePostalCode(form.PostalCode)
	out.Phone = NormalizePhone(form.Phone)
	return &out
}

// Terms of service (利用規約) form schemas.
package validation

// ProhibitedActionsOptions are the selectable prohibited actions.
var ProhibitedActionsOptions = []Option{
	{Value: "illegal", Label: "法令または公序良俗に違反する行為"},
	{Value: "ip_infringement", Label: "知的財産権を侵害する行為"},
	{Value: "defamation", Label: "他者の名誉・信用を毀損する行為"},
	{Value: "unauthorized_access", Label: "不正アクセスまたはその試み"},
	{Value: "commercial_use", Label: "無断での商用利用"},
	{Value: "service_disruption", Label: "サービスの運営を妨害する行為"},
	{Value: "impersonation", Label: "他者へのなりすまし"},
	{Value: "antisocial", Label: "反社会的勢力への利益供与"},
}

// JurisdictionOptions are the selectable courts of jurisdiction.
var JurisdictionOptions = []Option{
	{Value: "tokyo", Label: "東京地方裁判所"},
	{Value: "osaka", Label: "大阪地方裁判所"},
	{Value: "nagoya", Label: "名古屋地方裁判所"},
	{Value: "fukuoka", Label: "福岡地方裁判所"},
	{Value: "sapporo", Label: "札幌地方裁判所"},
	{Value: "other", Label: "その他"},
}

// TermsStep1 is the basic-information step.
type TermsStep1 struct {
	BusinessName string `json:"businessName" validate:"required,max=500"`
	ServiceName  string `json:"serviceName"  validate:"required,max=500"`
	SiteURL      string `json:"siteUrl"      validate:"required,url,max=500"`
	Email        string `json:"email"        validate:"required,email"`
}

// TermsStep2 is the terms-content step.
type TermsStep2 struct {
	RegistrationRequirement string   `json:"registrationRequirement" validate:"required,max=2000"`
	ProhibitedActions       []string `json:"prohibitedActions"       validate:"required,min=1,dive,oneof=illegal ip_infringement defamation unauthorized_access commercial_use service_disruption impersonation antisocial"`
	ProhibitedActionsOther  string   `json:"prohibitedActionsOther"  validate:"max=2000"`
	IntellectualProperty    string   `json:"intellectualProperty"    validate:"required,max=2000"`
	Disclaimer              string   `json:"disclaimer"              validate:"required,max=2000"`
	ServiceInterruption     string   `json:"serviceInterruption"     validate:"required,max=2000"`
	TermsChangePolicy       string   `json:"termsChangePolicy"       validate:"required,max=2000"`
	Jurisdiction            string   `json:"jurisdiction"            validate:"required,oneof=tokyo osaka nagoya fukuoka sapporo other"`
	JurisdictionOther       string   `json:"jurisdictionOther"       validate:"required_if=Jurisdiction other,max=500"`
	ContactMethod           string   `json:"contactMethod"           validate:"required,max=2000"`
}

// TermsForm is the full terms-of-service record.
type TermsForm struct {
	TermsStep1
	TermsStep2
}

var termsMessages = map[string]string{
	"businessName.required":            "事業者名を入力してください",
	"serviceName.required":             "サービス名を入力してください",
	"siteUrl.required":                 "サイトURLを入力してください",
	"siteUrl":                          "正しいURLを入力してください（例: https://example.com）",
	"email.required":                   "メールアドレスを入力してください",
	"email":                            "正しいメールアドレスを入力してください",
	"registrationRequirement.required": "利用登録の要件を入力してください",
	"prohibitedActions":                "禁止事項を1つ以上選択してください",
	"intellectualProperty.required":    "知的財産権について入力してください",
	"disclaimer.required":              "免責事項を入力してください",
	"serviceInterruption.required":     "サービス中断ポリシーを入力してください",
	"termsChangePolicy.required":       "規約変更ポリシーを入力してください",
	"jurisdiction":                     "準拠法・裁判管轄を選択してください",
	"jurisdictionOther":                "「その他」を選択した場合は裁判管轄を入力してください",
	"contactMethod.required":           "問い合わせ方法を入力してください",
}

// ValidateTerms parses and validates a full terms-of-service payload.
func ValidateTerms(raw []byte) (*TermsForm, FieldErrors, error) {
	var form TermsForm
	if err := decode(raw, &form); err != nil {
		return nil, nil, err
	}
	if ferrs := collect(validate.Struct(&form), termsMessages); len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	return &form, nil, nil
}

// ValidateTermsStep validates a single wizard step.
func ValidateTermsStep(step int, raw []byte) (FieldErrors, error) {
	switch step {
	case 1:
		var s TermsStep1
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), termsMessages), nil
	case 2:
		var s TermsStep2
		if err := decode(raw, &s); err != nil {
			return nil, err
		}
		return collect(validate.Struct(&s), termsMessages), nil
	default:
		_, ferrs, err := ValidateTerms(raw)
		return ferrs, err
	}
}

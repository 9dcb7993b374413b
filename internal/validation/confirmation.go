// Final confirmation screen (最終確認画面) settings.
//
// 2022年改正特商法 第12条の6 で最終確認画面に表示が義務付けられる6項目:
// 分量・販売価格・支払方法及び時期・引渡時期・解除及び返品事項・申込期間。
package validation

// ConfirmationForm holds the checkout confirmation-block settings stored as
// shop metafields. Text fields are mandatory only while the block is enabled.
type ConfirmationForm struct {
	Enabled          bool   `json:"enabled"`
	QuantityText     string `json:"quantityText"     validate:"max=500,required_if=Enabled true"`
	PriceText        string `json:"priceText"        validate:"max=2000,required_if=Enabled true"`
	PaymentText      string `json:"paymentText"      validate:"max=2000,required_if=Enabled true"`
	DeliveryText     string `json:"deliveryText"     validate:"max=2000,required_if=Enabled true"`
	CancellationText string `json:"cancellationText" validate:"max=2000,required_if=Enabled true"`
	PeriodText       string `json:"periodText"       validate:"max=500,required_if=Enabled true"`
	CheckboxLabel    string `json:"checkboxLabel"    validate:"max=500,required_if=Enabled true"`
}

var confirmationMessages = map[string]string{
	"quantityText":     "分量に関する表示内容を入力してください",
	"priceText":        "販売価格に関する表示内容を入力してください",
	"paymentText":      "支払方法・時期に関する表示内容を入力してください",
	"deliveryText":     "引渡時期に関する表示内容を入力してください",
	"cancellationText": "解除・返品に関する表示内容を入力してください",
	"periodText":       "申込期間に関する表示内容を入力してください",
	"checkboxLabel":    "チェックボックスラベルを入力してください",
}

// ConfirmationDefaults returns the starting text for each legally required
// item, with the block disabled.
func ConfirmationDefaults() ConfirmationForm {
	return ConfirmationForm{
		Enabled:          false,
		QuantityText:     "カート内に表示されている数量をご確認ください。",
		PriceText:        "カート内に表示されている商品金額・送料・手数料を含む合計金額をご確認ください。",
		PaymentText:      "お支払い方法はチェックアウト画面にてご選択いただけます。クレジットカード決済の場合、商品発送時にご請求いたします。",
		DeliveryText:     "ご注文確定後、通常3〜7営業日以内に発送いたします。配送状況は発送完了メールにてご確認いただけます。",
		CancellationText: "ご注文確定後のキャンセルは原則お受けできません。返品・交換については返品ポリシーをご確認ください。",
		PeriodText:       "特に定めはありません。在庫がなくなり次第、販売を終了する場合がございます。",
		CheckboxLabel:    "上記の内容を確認しました",
	}
}

// ValidateConfirmation parses and validates a confirmation-settings payload.
func ValidateConfirmation(raw []byte) (*ConfirmationForm, FieldErrors, error) {
	var form ConfirmationForm
	if err := decode(raw, &form); err != nil {
		return nil, nil, err
	}
	if ferrs := collect(validate.Struct(&form), confirmationMessages); len(ferrs) > 0 {
		return nil, ferrs, nil
	}
	return &form, nil, nil
}

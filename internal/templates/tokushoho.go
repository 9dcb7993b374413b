package templates

import (
	"fmt"
	"strings"

	"github.com/marutto-legal/go-legal-pages/internal/validation"
)

// Inline styles for consistent rendering across Shopify themes.
const (
	tokushohoTHStyle = "border:1px solid #ddd;padding:12px 16px;background:#f8f8f8;font-weight:bold;text-align:left;vertical-align:top;width:30%;white-space:nowrap;"
	tokushohoTDStyle = "border:1px solid #ddd;padding:12px 16px;vertical-align:top;"
)

const undisclosedNotice = "請求があった場合、遅滞なく開示いたします。"

// Tokushoho renders a 特定商取引法に基づく表記 page.
func Tokushoho(form *validation.TokushohoForm) string {
	labels := make([]string, len(form.PaymentMethods))
	for i, m := range form.PaymentMethods {
		labels[i] = validation.LabelFor(validation.PaymentMethods, m)
	}
	paymentMethods := Escape(strings.Join(labels, "、"))

	address := undisclosedNotice
	phone := undisclosedNotice
	if form.AddressDisclosure == "public" {
		address = "〒" + Escape(form.PostalCode) + " " + Escape(form.Address)
		phone = Escape(form.Phone)
	}

	var b strings.Builder
	b.WriteString(`<div style="max-width:800px;margin:0 auto;">` + "\n")
	b.WriteString(`  <h1 style="font-size:1.5em;margin-bottom:20px;">特定商取引法に基づく表記</h1>` + "\n")
	b.WriteString(`  <table style="width:100%;border-collapse:collapse;">` + "\n")
	b.WriteString("    <tbody>\n")

	row := func(label, value string) {
		fmt.Fprintf(&b, "      <tr>\n        <th style=%q>%s</th>\n        <td style=%q>%s</td>\n      </tr>\n",
			tokushohoTHStyle, label, tokushohoTDStyle, value)
	}

	row("販売業者", Escape(form.BusinessName))
	row("運営責任者", Escape(form.RepresentativeName))
	row("所在地", address)
	row("電話番号", phone)
	row("メールアドレス", Escape(form.Email))
	row("販売価格", NlToBr(form.SellingPrice))
	row("商品代金以外の必要料金", NlToBr(form.AdditionalFees))
	row("支払方法", paymentMethods)
	row("支払時期", NlToBr(form.PaymentTiming))
	row("商品の引渡時期", NlToBr(form.DeliveryTime))
	if form.DeliveryNotes != "" {
		row("引き渡し時期の特記事項", NlToBr(form.DeliveryNotes))
	}
	row("返品・交換について", NlToBr(form.ReturnPolicy))
	row("返品期限", Escape(form.ReturnDeadline))
	row("返品送料", Escape(form.ReturnShippingCost))
	row("商品の不良について", NlToBr(form.DefectiveItemPolicy))
	if form.QuantityLimit != "" {
		row("販売数量の制限", Escape(form.QuantityLimit))
	}

	b.WriteString("    </tbody>\n")
	b.WriteString("  </table>\n")
	b.WriteString("</div>")
	return Clean(b.String())
}
